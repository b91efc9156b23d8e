package dogs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// MsgFetchBreedsFailed es el único mensaje que ve el usuario ante cualquier falla.
const MsgFetchBreedsFailed = "Failed to fetch breeds"

// MsgSessionExpired se devuelve con 401 cuando el upstream ya no reconoce la sesión.
const MsgSessionExpired = "Session expired"

var (
	ErrNoSource = errors.New("no breed source")
	// ErrUnauthorized: el upstream rechazó la cookie de la sesión (vencida o cerrada).
	ErrUnauthorized = errors.New("upstream session unauthorized")
)

// BreedSource es lo que necesitamos del upstream (lo implementa fetchapi.Client).
type BreedSource interface {
	Breeds(ctx context.Context) ([]string, error)
}

// BreedService cachea la lista de razas, compartida por todas las sesiones.
type BreedService struct {
	ttl time.Duration
	now func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	breeds    []string
	fetchedAt time.Time
}

func NewBreedService(ttl time.Duration) *BreedService {
	return &BreedService{
		ttl: ttl,
		now: time.Now,
	}
}

// List devuelve las razas desde cache o desde src.
// Misses concurrentes se colapsan en una sola llamada.
func (s *BreedService) List(ctx context.Context, src BreedSource) ([]string, error) {
	if cached, ok := s.cached(); ok {
		return cached, nil
	}
	if src == nil {
		return nil, ErrNoSource
	}

	v, err, _ := s.group.Do("breeds", func() (any, error) {
		if cached, ok := s.cached(); ok {
			return cached, nil
		}
		breeds, err := src.Breeds(ctx)
		if err != nil {
			return nil, fmt.Errorf("list breeds: %w", err)
		}
		if breeds == nil {
			breeds = []string{}
		}

		s.mu.Lock()
		s.breeds = breeds
		s.fetchedAt = s.now()
		s.mu.Unlock()

		return breeds, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

func (s *BreedService) cached() ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.breeds == nil || s.ttl <= 0 {
		return nil, false
	}
	if s.now().Sub(s.fetchedAt) >= s.ttl {
		return nil, false
	}
	return clone(s.breeds), true
}

func clone(in []string) []string {
	return append([]string{}, in...)
}
