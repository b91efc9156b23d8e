package dogs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SourceResolver devuelve el BreedSource de la sesión del request.
// Lo arma el router para no importar session desde el dominio.
type SourceResolver func(ctx context.Context) (BreedSource, bool)

func RegisterRoutes(r chi.Router, svc *BreedService, resolve SourceResolver) {
	r.Get("/breeds", listBreedsHandler(svc, resolve))
}

type errorResponse struct {
	Error string `json:"error"`
}

// listBreedsHandler godoc
// @Summary      Lista de razas
// @Description  Nombres de razas disponibles para filtrar (cacheados)
// @Tags         breeds
// @Produce      json
// @Success      200 {array}  string
// @Failure      401 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Router       /breeds [get]
func listBreedsHandler(svc *BreedService, resolve SourceResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, ok := resolve(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		breeds, err := svc.List(r.Context(), src)
		if errors.Is(err, ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: MsgSessionExpired})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: MsgFetchBreedsFailed})
			return
		}

		writeJSON(w, http.StatusOK, breeds)
	}
}

// writeJSON está duplicado en cada módulo (dogs/search/favorites/auth)
// para no crear un paquete de helpers antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
