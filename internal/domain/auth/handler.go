package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"dog-adoption-search/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

func RegisterRoutes(r chi.Router, svc *Service, cookie CookieOptions) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc, cookie))
		ar.Post("/logout", logoutHandler(svc, cookie))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// loginHandler godoc
// @Summary      Login
// @Description  Abre sesión en la API de perros y devuelve la cookie dogsearch_session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body loginRequest true "Credenciales"
// @Success      200 {object} loginResponse
// @Failure      400 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Router       /auth/login [post]
func loginHandler(svc *Service, cookie CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		sess, err := svc.Login(r.Context(), req.Name, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name and a valid email are required"})
			default:
				writeJSON(w, http.StatusBadGateway, errorResponse{Error: MsgLoginFailed})
			}
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(cookie.TTL.Seconds()),
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, loginResponse{
			SessionID: sess.ID,
			Name:      sess.User.Name,
			Email:     sess.User.Email,
		})
	}
}

// logoutHandler godoc
// @Summary      Logout
// @Description  Cierra la sesión upstream, borra el estado persistido y expira la cookie.
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401 {object} errorResponse
// @Failure      502 {object} errorResponse
// @Router       /auth/logout [post]
func logoutHandler(svc *Service, cookie CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.GetSession(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		if err := svc.Logout(r.Context(), sess); err != nil {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: MsgLogoutFailed})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
