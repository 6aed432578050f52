package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/middleware"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/services"
)

type ClientStateHandler struct {
	states *services.ClientStateService
	logger *zap.Logger
}

func NewClientStateHandler(states *services.ClientStateService, logger *zap.Logger) *ClientStateHandler {
	return &ClientStateHandler{states: states, logger: logger.Named("client_state")}
}

type ClientStateRequest struct {
	IsOnboarded *bool `json:"isOnboarded"`
}

func (h *ClientStateHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	state, err := h.states.Load(r.Context(), identity)
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		h.logger.Warn("discarding unreadable client state", zap.String("user_id", identity.User.ID), zap.Error(err))
		state = domain.AuthState{User: identity.User, Session: identity.Session}
	case err != nil:
		h.logger.Error("failed to load client state", zap.String("user_id", identity.User.ID), zap.Error(err))
		middleware.WriteError(w, http.StatusServiceUnavailable, "state_unavailable")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, state)
}

func (h *ClientStateHandler) Put(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req ClientStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsOnboarded == nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	store := h.states.For(identity.User.ID)
	switch err := store.Hydrate(r.Context()); {
	case errors.Is(err, domain.ErrInvalidPayload):
		h.logger.Warn("discarding unreadable client state", zap.String("user_id", identity.User.ID), zap.Error(err))
	case err != nil:
		h.logger.Warn("client state store unavailable, writing without stored state", zap.String("user_id", identity.User.ID), zap.Error(err))
	}
	if err := store.SetOnboarded(r.Context(), *req.IsOnboarded); err != nil {
		h.logger.Error("failed to save client state", zap.String("user_id", identity.User.ID), zap.Error(err))
		middleware.WriteError(w, http.StatusServiceUnavailable, "state_unavailable")
		return
	}
	store.Mirror(identity)
	middleware.WriteJSON(w, http.StatusOK, store.Snapshot())
}
