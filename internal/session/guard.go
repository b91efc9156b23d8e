package session

import (
	"context"
	"errors"

	"dog-adoption-search/internal/domain/dogs"
	"dog-adoption-search/internal/ports/dogsapi"
)

// guardedClient descarta la sesión local apenas el upstream rechaza la cookie.
type guardedClient struct {
	dogsapi.Client
	expired func()
}

// Guard envuelve api: cualquier dogs.ErrUnauthorized ejecuta expired.
func Guard(api dogsapi.Client, expired func()) dogsapi.Client {
	return &guardedClient{Client: api, expired: expired}
}

// Guard borra la sesión id cuando el upstream la da por vencida.
func (m *Manager) Guard(id string, api dogsapi.Client) dogsapi.Client {
	return Guard(api, func() {
		m.log.Info("upstream session expired", map[string]any{"session_id": id})
		m.Delete(id)
	})
}

func (g *guardedClient) check(err error) error {
	if errors.Is(err, dogs.ErrUnauthorized) {
		g.expired()
	}
	return err
}

func (g *guardedClient) Breeds(ctx context.Context) ([]string, error) {
	out, err := g.Client.Breeds(ctx)
	return out, g.check(err)
}

func (g *guardedClient) Search(ctx context.Context, q dogsapi.SearchQuery) (dogsapi.SearchPage, error) {
	page, err := g.Client.Search(ctx, q)
	return page, g.check(err)
}

func (g *guardedClient) FetchDogs(ctx context.Context, ids []string) ([]dogs.Dog, error) {
	out, err := g.Client.FetchDogs(ctx, ids)
	return out, g.check(err)
}

func (g *guardedClient) Match(ctx context.Context, ids []string) (string, error) {
	id, err := g.Client.Match(ctx, ids)
	return id, g.check(err)
}

func (g *guardedClient) Logout(ctx context.Context) error {
	return g.check(g.Client.Logout(ctx))
}
