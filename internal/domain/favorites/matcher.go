package favorites

import (
	"context"
	"errors"
	"fmt"

	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/platform/logger"
	"dog-adoption-search/internal/platform/metrics"
	"dog-adoption-search/internal/ports/dogsapi"
)

const MsgMatchFailed = "Failed to generate match"

var (
	ErrNoFavorites  = errors.New("no favorites to match")
	ErrMatchFailed  = errors.New(MsgMatchFailed)
	ErrUnknownMatch = errors.New("match is not among favorites")
)

// Matcher genera un match a partir de los favoritos.
type Matcher struct {
	api   dogsapi.Matcher
	store *Store
	log   logger.Logger
}

func NewMatcher(api dogsapi.Matcher, store *Store, log logger.Logger) *Matcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Matcher{api: api, store: store, log: log}
}

// Generate vacía los favoritos, pide el match con sus ids y lo agrega al historial.
// Si el upstream falla, los favoritos vuelven al set.
func (m *Matcher) Generate(ctx context.Context) (dogs.Dog, error) {
	snapshot := m.store.takeAll(ctx)
	if len(snapshot) == 0 {
		return dogs.Dog{}, ErrNoFavorites
	}

	ids := make([]string, 0, len(snapshot))
	for _, d := range snapshot {
		ids = append(ids, d.ID)
	}

	matchID, err := m.api.Match(ctx, ids)
	if err != nil {
		m.store.putBack(ctx, snapshot)
		metrics.MatchesGenerated.WithLabelValues("failed").Inc()
		m.log.Warn("generate match failed", map[string]any{"err": err, "favorites": len(ids)})
		return dogs.Dog{}, fmt.Errorf("%w: %w", ErrMatchFailed, err)
	}

	i := dogs.IndexByID(snapshot, matchID)
	if i < 0 {
		metrics.MatchesGenerated.WithLabelValues("unknown").Inc()
		m.log.Warn("match not among favorites", map[string]any{"match_id": matchID})
		return dogs.Dog{}, ErrUnknownMatch
	}

	dog := snapshot[i]
	if err := m.store.AddMatch(ctx, dog); err != nil {
		return dogs.Dog{}, err
	}
	metrics.MatchesGenerated.WithLabelValues("ok").Inc()
	return dog, nil
}
