package auth

import (
	"log/slog"
	"net/http"

	"github.com/minicrm/minicrm/internal/platform/httpx"
	"github.com/minicrm/minicrm/internal/shared"
)

// RequireAuth resolves the bearer token and attaches the principal to
// the request context. Requests without a valid token get a 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		user, err := h.service.UserByToken(r.Context(), token)
		if err != nil {
			h.logger.Debug("token rejected", slog.Any("error", err))
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), user.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
