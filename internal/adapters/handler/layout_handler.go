package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/middleware"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/services"
)

type LayoutHandler struct {
	layout ports.LayoutService
	logger *zap.Logger
}

func NewLayoutHandler(layout ports.LayoutService, logger *zap.Logger) *LayoutHandler {
	return &LayoutHandler{layout: layout, logger: logger.Named("layout_handler")}
}

// Resolve answers GET /apps/{app}/layout/{scope}. With ?follow=1 a redirect
// outcome is sent as 303 See Other instead of a JSON body.
func (h *LayoutHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	app := domain.App(chi.URLParam(r, "app"))
	scope := domain.Scope(chi.URLParam(r, "scope"))
	creds := middleware.CredentialsFromContext(r.Context())

	result, err := h.layout.Resolve(r.Context(), app, scope, creds)
	switch {
	case errors.Is(err, domain.ErrUnknownApp), errors.Is(err, domain.ErrUnknownScope):
		NotFound(w, r)
		return
	case errors.Is(err, domain.ErrAuthUnavailable):
		middleware.WriteError(w, http.StatusServiceUnavailable, "auth_unavailable")
		return
	case services.IsUnavailable(err):
		middleware.WriteError(w, http.StatusServiceUnavailable, "status_unavailable")
		return
	case err != nil:
		h.logger.Error("layout resolution failed", zap.Error(err))
		middleware.WriteError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	if result.Outcome.IsRedirect() && r.URL.Query().Get("follow") == "1" {
		http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}
