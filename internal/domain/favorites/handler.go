package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dog-adoption-search/internal/domain/dogs"

	"github.com/go-chi/chi/v5"
)

// Deps es lo que los handlers necesitan de la sesión.
type Deps struct {
	Store   *Store
	Matcher *Matcher
	// Lookup resuelve un perro entre los resultados de búsqueda actuales.
	Lookup func(id string) (dogs.Dog, bool)
}

type Resolver func(ctx context.Context) (Deps, bool)

func RegisterRoutes(r chi.Router, resolve Resolver) {
	r.Route("/favorites", func(fr chi.Router) {
		fr.Get("/", listFavoritesHandler(resolve))
		fr.Delete("/", clearFavoritesHandler(resolve))
		fr.Post("/toggle", toggleFavoriteHandler(resolve))
		fr.Post("/match", generateMatchHandler(resolve))
		fr.Delete("/{dogID}", removeFavoriteHandler(resolve))
	})

	r.Route("/matches", func(mr chi.Router) {
		mr.Get("/", listMatchesHandler(resolve))
		mr.Delete("/", clearMatchesHandler(resolve))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type favoritesResponse struct {
	Favorites       []dogs.Dog `json:"favorites"`
	PreviousMatches []dogs.Dog `json:"previous_matches"`
}

type toggleResponse struct {
	Favorite  bool       `json:"favorite"`
	Favorites []dogs.Dog `json:"favorites"`
}

type matchResponse struct {
	Match           dogs.Dog   `json:"match"`
	PreviousMatches []dogs.Dog `json:"previous_matches"`
}

// listFavoritesHandler godoc
// @Summary      Favoritos e historial de matches
// @Tags         favorites
// @Produce      json
// @Success      200 {object} favoritesResponse
// @Failure      401 {object} errorResponse
// @Router       /favorites [get]
func listFavoritesHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		writeJSON(w, http.StatusOK, favoritesResponse{
			Favorites:       d.Store.List(),
			PreviousMatches: d.Store.Matches(),
		})
	}
}

// toggleFavoriteHandler godoc
// @Summary      Marca / desmarca favorito
// @Description  Con solo `id`, el perro se toma de los resultados actuales de búsqueda.
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Param        body body dogs.Dog true "Perro (id obligatorio)"
// @Success      200 {object} toggleResponse
// @Failure      400 {object} errorResponse
// @Failure      401 {object} errorResponse
// @Failure      404 {object} errorResponse
// @Failure      409 {object} errorResponse
// @Router       /favorites/toggle [post]
func toggleFavoriteHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		var req dogs.Dog
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}
		req.ID = strings.TrimSpace(req.ID)
		if req.ID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id is required"})
			return
		}

		// Solo id: para quitar alcanza; para agregar hay que resolver el registro.
		dog := req
		if req.Name == "" && !d.Store.IsFavorite(req.ID) {
			found := false
			if d.Lookup != nil {
				dog, found = d.Lookup(req.ID)
			}
			if !found {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "dog not in current results"})
				return
			}
		}

		added, err := d.Store.Toggle(r.Context(), dog)
		if errors.Is(err, ErrFavoritesFull) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, toggleResponse{Favorite: added, Favorites: d.Store.List()})
	}
}

// removeFavoriteHandler godoc
// @Summary      Quita un favorito
// @Tags         favorites
// @Param        dogID path string true "Dog ID"
// @Success      204
// @Failure      401 {object} errorResponse
// @Failure      404 {object} errorResponse
// @Router       /favorites/{dogID} [delete]
func removeFavoriteHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		if err := d.Store.Remove(r.Context(), chi.URLParam(r, "dogID")); err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "favorite not found"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// clearFavoritesHandler godoc
// @Summary      Vacía favoritos
// @Tags         favorites
// @Success      204
// @Failure      401 {object} errorResponse
// @Router       /favorites [delete]
func clearFavoritesHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		d.Store.Clear(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// generateMatchHandler godoc
// @Summary      Genera un match
// @Description  Vacía los favoritos, pide el match y lo agrega al historial.
// @Tags         favorites
// @Produce      json
// @Success      200 {object} matchResponse
// @Failure      401 {object} errorResponse
// @Failure      409 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Router       /favorites/match [post]
func generateMatchHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		dog, err := d.Matcher.Generate(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, dogs.ErrUnauthorized):
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: dogs.MsgSessionExpired})
			case errors.Is(err, ErrNoFavorites):
				writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: MsgMatchFailed})
			}
			return
		}

		writeJSON(w, http.StatusOK, matchResponse{Match: dog, PreviousMatches: d.Store.Matches()})
	}
}

// listMatchesHandler godoc
// @Summary      Historial de matches
// @Tags         matches
// @Produce      json
// @Success      200 {array}  dogs.Dog
// @Failure      401 {object} errorResponse
// @Router       /matches [get]
func listMatchesHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Matches())
	}
}

// clearMatchesHandler godoc
// @Summary      Vacía el historial de matches
// @Tags         matches
// @Success      204
// @Failure      401 {object} errorResponse
// @Router       /matches [delete]
func clearMatchesHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		d.Store.ClearMatches(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeJSON está duplicado en cada módulo (dogs/search/favorites/auth)
// para no crear un paquete de helpers antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
