// Package localstore define el almacenamiento key/value por usuario
// (equivalente server-side del localStorage del navegador).
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("localstore: key not found")

// Keys persistidas por namespace.
const (
	KeySelectedBreeds  = "selectedBreeds"
	KeyAgeRange        = "ageRange"
	KeyZipCodes        = "zipCodes"
	KeyFavorites       = "favorites"
	KeyPreviousMatches = "previousMatches"
)

// Store guarda valores JSON crudos agrupados por namespace.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Clear(ctx context.Context, namespace string) error
}

// LoadJSON decodifica key en out. Devuelve false si no existe.
func LoadJSON(ctx context.Context, s Store, namespace, key string, out any) (bool, error) {
	raw, err := s.Get(ctx, namespace, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return true, nil
}

func SaveJSON(ctx context.Context, s Store, namespace, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}
	return s.Set(ctx, namespace, key, b)
}
