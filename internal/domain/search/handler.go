package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"dog-adoption-search/internal/domain/dogs"

	"github.com/go-chi/chi/v5"
)

// Resolver devuelve el Coordinator de la sesión del request.
type Resolver func(ctx context.Context) (*Coordinator, bool)

func RegisterRoutes(r chi.Router, resolve Resolver) {
	r.Route("/search", func(sr chi.Router) {
		sr.Get("/", getSearchHandler(resolve))
		sr.Patch("/filters", updateFiltersHandler(resolve))
		sr.Post("/apply", applyHandler(resolve))
		sr.Post("/next", pageHandler(resolve, true))
		sr.Post("/prev", pageHandler(resolve, false))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type updateFiltersRequest struct {
	// Punteros para PATCH: nil = no tocar.
	Breeds   *[]string `json:"breeds"`
	Sort     *string   `json:"sort"`
	AgeMin   *int      `json:"age_min"`
	AgeMax   *int      `json:"age_max"`
	ZipCodes *string   `json:"zip_codes"` // texto libre: "10001, 10002 10003"
}

// getSearchHandler godoc
// @Summary      Estado actual de la búsqueda
// @Description  Resultados de la página actual, filtros aplicados y paginación. La primera vez dispara la búsqueda.
// @Tags         search
// @Produce      json
// @Success      200 {object} Snapshot
// @Failure      401 {object} errorResponse
// @Router       /search [get]
func getSearchHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		// el error queda en Snapshot.Error; GET devuelve estado salvo sesión vencida
		if err := c.EnsureLoaded(r.Context()); errors.Is(err, dogs.ErrUnauthorized) {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, c.Snapshot())
	}
}

// updateFiltersHandler godoc
// @Summary      Cambia filtros
// @Description  breeds/sort buscan en el acto (200). age_min/age_max/zip_codes se aplican con debounce (202).
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        body body updateFiltersRequest true "Filtros a cambiar"
// @Success      200 {object} Snapshot
// @Success      202 {object} Snapshot
// @Failure      400 {object} errorResponse
// @Failure      401 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Router       /search/filters [patch]
func updateFiltersHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateFiltersRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		var u Update
		u.Breeds = req.Breeds
		u.ZipText = req.ZipCodes

		if req.Sort != nil {
			order, err := ParseSortOrder(*req.Sort)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			u.Sort = &order
		}

		// Si llega un solo extremo, el otro sale del último valor recibido.
		if req.AgeMin != nil || req.AgeMax != nil {
			ages := c.Snapshot().Filters.AgeInput
			if req.AgeMin != nil {
				ages.Min = *req.AgeMin
			}
			if req.AgeMax != nil {
				ages.Max = *req.AgeMax
			}
			u.Age = &ages
		}

		if u.Empty() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no filters to update"})
			return
		}

		if err := c.Update(r.Context(), u); err != nil {
			writeError(w, err)
			return
		}

		status := http.StatusAccepted
		if u.Immediate() {
			status = http.StatusOK
		}
		writeJSON(w, status, c.Snapshot())
	}
}

// applyHandler godoc
// @Summary      Aplica filtros pendientes
// @Description  Descarta el debounce de edad/zip y busca en el acto.
// @Tags         search
// @Produce      json
// @Success      200 {object} Snapshot
// @Failure      401 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Router       /search/apply [post]
func applyHandler(resolve Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		if err := c.ApplyNow(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c.Snapshot())
	}
}

// pageHandler godoc
// @Summary      Página siguiente / anterior
// @Description  Usa el offset del cursor next/prev de la última búsqueda.
// @Tags         search
// @Produce      json
// @Success      200 {object} Snapshot
// @Failure      401 {object} errorResponse
// @Failure      409 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Router       /search/next [post]
// @Router       /search/prev [post]
func pageHandler(resolve Resolver, forward bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		var err error
		if forward {
			err = c.Next(r.Context())
		} else {
			err = c.Prev(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c.Snapshot())
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dogs.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: dogs.MsgSessionExpired})
	case errors.Is(err, ErrInvalidSort), errors.Is(err, ErrInvalidAgeRange):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrNoPage), errors.Is(err, ErrBadCursor):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrSearchFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: MsgSearchFailed})
	case errors.Is(err, ErrDetailsFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: MsgDetailsFailed})
	case errors.Is(err, ErrClosed):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session closed"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeJSON está duplicado en cada módulo (dogs/search/favorites/auth)
// para no crear un paquete de helpers antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
