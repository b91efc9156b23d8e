package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/ports/localstore"
)

type testStore struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newTestStore() *testStore { return &testStore{data: map[string][]byte{}} }

func (s *testStore) Get(ctx context.Context, ns, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[ns+"/"+key]
	if !ok {
		return nil, localstore.ErrNotFound
	}
	return v, nil
}

func (s *testStore) Set(ctx context.Context, ns, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[ns+"/"+key] = append([]byte(nil), value...)
	return nil
}

func (s *testStore) Clear(ctx context.Context, ns string) error { return nil }

func (s *testStore) decode(t *testing.T, key string) []dogs.Dog {
	t.Helper()
	s.mu.Lock()
	raw := s.data["ns/"+key]
	s.mu.Unlock()
	var out []dogs.Dog
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s: %v (%s)", key, err, raw)
	}
	return out
}

var (
	rex  = dogs.Dog{ID: "1", Name: "Rex", Breed: "Akita", Age: 3, ZipCode: "10001"}
	luna = dogs.Dog{ID: "2", Name: "Luna", Breed: "Beagle", Age: 5, ZipCode: "10002"}
	toby = dogs.Dog{ID: "3", Name: "Toby", Breed: "Corgi", Age: 1, ZipCode: "10003"}
)

func idsOf(list []dogs.Dog) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestToggle_TwiceRestoresOriginalSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, Options{Namespace: "ns", Store: newTestStore()})

	_, _ = s.Toggle(ctx, rex)
	_, _ = s.Toggle(ctx, luna)
	before := idsOf(s.List())

	added, err := s.Toggle(ctx, toby)
	if err != nil || !added {
		t.Fatalf("first toggle should add: added=%v err=%v", added, err)
	}
	added, err = s.Toggle(ctx, toby)
	if err != nil || added {
		t.Fatalf("second toggle should remove: added=%v err=%v", added, err)
	}

	if after := idsOf(s.List()); !equalIDs(before, after) {
		t.Fatalf("expected %v after double toggle, got %v", before, after)
	}
}

func TestToggle_KeepsInsertionOrderAndPersists(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	s := NewStore(ctx, Options{Namespace: "ns", Store: st})

	_, _ = s.Toggle(ctx, luna)
	_, _ = s.Toggle(ctx, rex)
	_, _ = s.Toggle(ctx, toby)
	_, _ = s.Toggle(ctx, rex)

	want := []string{"2", "3"}
	if got := idsOf(s.List()); !equalIDs(want, got) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := idsOf(st.decode(t, localstore.KeyFavorites)); !equalIDs(want, got) {
		t.Fatalf("persisted %v, want %v", got, want)
	}
	if !s.IsFavorite("3") || s.IsFavorite("1") {
		t.Fatalf("IsFavorite out of sync")
	}
}

func TestToggle_RequiresID(t *testing.T) {
	s := NewStore(context.Background(), Options{})
	if _, err := s.Toggle(context.Background(), dogs.Dog{Name: "NoID"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestToggle_RejectsBeyondMatchBatch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	s := NewStore(ctx, Options{Namespace: "ns", Store: st})

	for i := 0; i < MaxFavorites; i++ {
		if _, err := s.Toggle(ctx, dogs.Dog{ID: fmt.Sprintf("d%03d", i), Name: "Dog"}); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	added, err := s.Toggle(ctx, dogs.Dog{ID: "extra", Name: "Extra"})
	if !errors.Is(err, ErrFavoritesFull) || added {
		t.Fatalf("expected ErrFavoritesFull, got added=%v err=%v", added, err)
	}
	if n := len(s.List()); n != MaxFavorites {
		t.Fatalf("expected %d favorites, got %d", MaxFavorites, n)
	}

	// quitar sigue funcionando con el set lleno
	if added, err := s.Toggle(ctx, dogs.Dog{ID: "d000"}); err != nil || added {
		t.Fatalf("removing at the cap should work: added=%v err=%v", added, err)
	}
	if _, err := s.Toggle(ctx, dogs.Dog{ID: "extra", Name: "Extra"}); err != nil {
		t.Fatalf("adding after removal: %v", err)
	}
	if n := len(st.decode(t, localstore.KeyFavorites)); n != MaxFavorites {
		t.Fatalf("persisted %d favorites, want %d", n, MaxFavorites)
	}
}

func TestNewStore_TruncatesRestoredFavorites(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	stored := make([]dogs.Dog, 0, MaxFavorites+20)
	for i := 0; i < MaxFavorites+20; i++ {
		stored = append(stored, dogs.Dog{ID: fmt.Sprintf("d%03d", i)})
	}
	_ = localstore.SaveJSON(ctx, st, "ns", localstore.KeyFavorites, stored)

	s := NewStore(ctx, Options{Namespace: "ns", Store: st})
	got := s.List()
	if len(got) != MaxFavorites || got[0].ID != "d000" {
		t.Fatalf("expected the first %d favorites, got %d starting at %v", MaxFavorites, len(got), idsOf(got[:1]))
	}
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	s := NewStore(ctx, Options{Namespace: "ns", Store: st})

	_, _ = s.Toggle(ctx, rex)
	_, _ = s.Toggle(ctx, luna)

	if err := s.Remove(ctx, "1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s.Clear(ctx)
	if len(s.List()) != 0 {
		t.Fatalf("expected empty favorites")
	}
	if got := st.decode(t, localstore.KeyFavorites); len(got) != 0 {
		t.Fatalf("clear must persist an empty list, got %v", got)
	}
}

func TestAddMatch_PrependsWithoutDuplicates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	s := NewStore(ctx, Options{Namespace: "ns", Store: st})

	for _, d := range []dogs.Dog{rex, luna, rex, toby, rex, rex} {
		if err := s.AddMatch(ctx, d); err != nil {
			t.Fatalf("AddMatch: %v", err)
		}
	}

	want := []string{"1", "3", "2"}
	if got := idsOf(s.Matches()); !equalIDs(want, got) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := idsOf(st.decode(t, localstore.KeyPreviousMatches)); !equalIDs(want, got) {
		t.Fatalf("persisted %v, want %v", got, want)
	}

	s.ClearMatches(ctx)
	if len(s.Matches()) != 0 {
		t.Fatalf("expected no matches after clear")
	}
}

func TestNewStore_RestoresAndDedupes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	_ = localstore.SaveJSON(ctx, st, "ns", localstore.KeyFavorites, []dogs.Dog{rex, luna, rex})
	_ = localstore.SaveJSON(ctx, st, "ns", localstore.KeyPreviousMatches, []dogs.Dog{toby})

	s := NewStore(ctx, Options{Namespace: "ns", Store: st})
	if got := idsOf(s.List()); !equalIDs([]string{"1", "2"}, got) {
		t.Fatalf("unexpected restored favorites %v", got)
	}
	if got := idsOf(s.Matches()); !equalIDs([]string{"3"}, got) {
		t.Fatalf("unexpected restored matches %v", got)
	}
}

func TestPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	st.err = errors.New("disk full")
	s := NewStore(ctx, Options{Namespace: "ns", Store: st})

	added, err := s.Toggle(ctx, rex)
	if err != nil || !added {
		t.Fatalf("persistence is best effort: added=%v err=%v", added, err)
	}
	if !s.IsFavorite("1") {
		t.Fatalf("state must survive a failed persist")
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, Options{})
	_, _ = s.Toggle(ctx, rex)

	l := s.List()
	l[0].Name = "changed"
	if s.List()[0].Name != "Rex" {
		t.Fatalf("List must not expose internal slice")
	}
}
