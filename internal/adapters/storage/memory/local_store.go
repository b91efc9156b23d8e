package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"dog-adoption-search/internal/ports/localstore"
)

// localStore guarda valores por namespace en memoria (modo dev / tests).
type localStore struct {
	mu   sync.RWMutex
	byNS map[string]map[string][]byte
}

func NewLocalStore() localstore.Store {
	return &localStore{
		byNS: make(map[string]map[string][]byte),
	}
}

func (s *localStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byNS[namespace][key]
	if !ok {
		return nil, localstore.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *localStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.byNS[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.byNS[namespace] = ns
	}
	// copia: el caller puede reutilizar el buffer
	ns[key] = append([]byte(nil), value...)
	return nil
}

func (s *localStore) Clear(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byNS, namespace)
	return nil
}
