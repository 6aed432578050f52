package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/middleware"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/services"
)

type AuthHandler struct {
	identity      ports.IdentityResolver
	states        *services.ClientStateService
	accessCookie  string
	refreshCookie string
	logger        *zap.Logger
}

func NewAuthHandler(identity ports.IdentityResolver, states *services.ClientStateService, accessCookie, refreshCookie string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity:      identity,
		states:        states,
		accessCookie:  accessCookie,
		refreshCookie: refreshCookie,
		logger:        logger.Named("auth_handler"),
	}
}

type LogoutResponse struct {
	Message string `json:"message"`
}

// Logout revokes the session, clears the persisted client state and expires
// the auth cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	if err := h.identity.Revoke(r.Context(), identity.Session); err != nil {
		h.logger.Error("failed to revoke session", zap.String("user_id", identity.User.ID), zap.Error(err))
		middleware.WriteError(w, http.StatusServiceUnavailable, "logout_failed")
		return
	}
	if err := h.states.For(identity.User.ID).Clear(r.Context()); err != nil {
		h.logger.Warn("failed to clear client state", zap.String("user_id", identity.User.ID), zap.Error(err))
	}

	for _, name := range []string{h.accessCookie, h.refreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
	}
	middleware.WriteJSON(w, http.StatusOK, LogoutResponse{Message: "Logged out"})
}
