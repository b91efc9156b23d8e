package dogsapi

import (
	"context"

	"dog-adoption-search/internal/domain/dogs"
)

// Authenticator abre/cierra la sesión upstream (cookie HttpOnly).
type Authenticator interface {
	Login(ctx context.Context, name, email string) error
	Logout(ctx context.Context) error
}

type BreedLister interface {
	Breeds(ctx context.Context) ([]string, error)
}

type Searcher interface {
	Search(ctx context.Context, q SearchQuery) (SearchPage, error)
	FetchDogs(ctx context.Context, ids []string) ([]dogs.Dog, error)
}

type Matcher interface {
	Match(ctx context.Context, ids []string) (string, error)
}

// Client es el contrato completo de la API de perros para una sesión.
type Client interface {
	Authenticator
	BreedLister
	Searcher
	Matcher
}

// Factory crea un Client nuevo, con su propio cookie jar.
type Factory func() (Client, error)
