package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/platform/logger"
	"dog-adoption-search/internal/ports/dogsapi"
	"dog-adoption-search/internal/ports/localstore"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrFavoritesFull = fmt.Errorf("at most %d favorites", MaxFavorites)
)

// MaxFavorites: el match acepta como mucho un lote de ids.
const MaxFavorites = dogsapi.MaxBatch

const persistTimeout = 3 * time.Second

type Options struct {
	Namespace string
	Store     localstore.Store // nil => solo memoria
	Log       logger.Logger
}

// Store es el set de favoritos (único por id, orden de inserción) más el
// historial de matches (único por id, más reciente primero).
// Cada mutación se persiste en el acto; si falla, se loguea y el estado queda.
type Store struct {
	store localstore.Store
	ns    string
	log   logger.Logger

	mu        sync.Mutex
	favorites []dogs.Dog
	matches   []dogs.Dog
}

func NewStore(ctx context.Context, opts Options) *Store {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		store:     opts.Store,
		ns:        opts.Namespace,
		log:       log.With(map[string]any{"component": "favorites", "namespace": opts.Namespace}),
		favorites: []dogs.Dog{},
		matches:   []dogs.Dog{},
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	if s.store == nil {
		return
	}

	var favs []dogs.Dog
	if ok, err := localstore.LoadJSON(ctx, s.store, s.ns, localstore.KeyFavorites, &favs); err != nil {
		s.log.Warn("restore favorites failed", map[string]any{"err": err})
	} else if ok {
		s.favorites = capped(uniqueByID(favs))
	}

	var matches []dogs.Dog
	if ok, err := localstore.LoadJSON(ctx, s.store, s.ns, localstore.KeyPreviousMatches, &matches); err != nil {
		s.log.Warn("restore previous matches failed", map[string]any{"err": err})
	} else if ok {
		s.matches = uniqueByID(matches)
	}
}

// Toggle agrega dog si no está y lo quita si está. Devuelve si quedó como favorito.
// Con MaxFavorites ya guardados, agregar devuelve ErrFavoritesFull.
func (s *Store) Toggle(ctx context.Context, dog dogs.Dog) (bool, error) {
	if strings.TrimSpace(dog.ID) == "" {
		return false, ErrInvalidInput
	}

	s.mu.Lock()
	added := false
	if i := dogs.IndexByID(s.favorites, dog.ID); i >= 0 {
		s.favorites = without(s.favorites, i)
	} else {
		if len(s.favorites) >= MaxFavorites {
			s.mu.Unlock()
			return false, ErrFavoritesFull
		}
		s.favorites = append(s.favorites, dog)
		added = true
	}
	favs := clone(s.favorites)
	s.mu.Unlock()

	s.persist(ctx, localstore.KeyFavorites, favs)
	return added, nil
}

// Remove quita id. ErrNotFound si no era favorito.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i := dogs.IndexByID(s.favorites, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.favorites = without(s.favorites, i)
	favs := clone(s.favorites)
	s.mu.Unlock()

	s.persist(ctx, localstore.KeyFavorites, favs)
	return nil
}

func (s *Store) Clear(ctx context.Context) {
	s.takeAll(ctx)
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dogs.IndexByID(s.favorites, id) >= 0
}

func (s *Store) List() []dogs.Dog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.favorites)
}

// AddMatch pone dog primero en el historial, sin duplicar ids.
func (s *Store) AddMatch(ctx context.Context, dog dogs.Dog) error {
	if strings.TrimSpace(dog.ID) == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	next := make([]dogs.Dog, 0, len(s.matches)+1)
	next = append(next, dog)
	for _, m := range s.matches {
		if m.ID != dog.ID {
			next = append(next, m)
		}
	}
	s.matches = next
	matches := clone(s.matches)
	s.mu.Unlock()

	s.persist(ctx, localstore.KeyPreviousMatches, matches)
	return nil
}

func (s *Store) Matches() []dogs.Dog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.matches)
}

func (s *Store) ClearMatches(ctx context.Context) {
	s.mu.Lock()
	s.matches = []dogs.Dog{}
	s.mu.Unlock()

	s.persist(ctx, localstore.KeyPreviousMatches, []dogs.Dog{})
}

// takeAll vacía los favoritos y devuelve lo que había.
func (s *Store) takeAll(ctx context.Context) []dogs.Dog {
	s.mu.Lock()
	prev := s.favorites
	s.favorites = []dogs.Dog{}
	s.mu.Unlock()

	s.persist(ctx, localstore.KeyFavorites, []dogs.Dog{})
	return prev
}

// putBack devuelve snapshot al set, delante de lo agregado mientras tanto.
// Lo que exceda MaxFavorites se pierde desde el final.
func (s *Store) putBack(ctx context.Context, snapshot []dogs.Dog) {
	s.mu.Lock()
	s.favorites = capped(uniqueByID(append(clone(snapshot), s.favorites...)))
	favs := clone(s.favorites)
	s.mu.Unlock()

	s.persist(ctx, localstore.KeyFavorites, favs)
}

func (s *Store) persist(ctx context.Context, key string, v any) {
	if s.store == nil {
		return
	}
	// el request puede cancelarse; la persistencia no depende de eso
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := localstore.SaveJSON(ctx, s.store, s.ns, key, v); err != nil {
		s.log.Warn("persist favorites state failed", map[string]any{"key": key, "err": err})
	}
}

func without(list []dogs.Dog, i int) []dogs.Dog {
	out := make([]dogs.Dog, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func clone(list []dogs.Dog) []dogs.Dog {
	return append([]dogs.Dog{}, list...)
}

func capped(list []dogs.Dog) []dogs.Dog {
	if len(list) > MaxFavorites {
		return list[:MaxFavorites]
	}
	return list
}

func uniqueByID(list []dogs.Dog) []dogs.Dog {
	seen := make(map[string]struct{}, len(list))
	out := make([]dogs.Dog, 0, len(list))
	for _, d := range list {
		if d.ID == "" {
			continue
		}
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}
