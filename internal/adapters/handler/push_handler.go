package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/middleware"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

type PushHandler struct {
	notifications ports.NotificationService
	origin        string
	logger        *zap.Logger
}

func NewPushHandler(notifications ports.NotificationService, origin string, logger *zap.Logger) *PushHandler {
	return &PushHandler{notifications: notifications, origin: origin, logger: logger.Named("push_handler")}
}

type SendRequest struct {
	App         string             `json:"app"`
	RecipientID string             `json:"recipient_id"`
	Payload     domain.PushPayload `json:"payload"`
}

type SendResponse struct {
	ID string `json:"id"`
}

func (h *PushHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	n, err := h.notifications.Send(r.Context(), domain.App(req.App), req.RecipientID, req.Payload)
	switch {
	case errors.Is(err, domain.ErrInvalidPayload), errors.Is(err, domain.ErrUnknownApp):
		middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid_payload", Message: err.Error()})
		return
	case err != nil:
		h.logger.Error("failed to queue push", zap.Error(err))
		middleware.WriteError(w, http.StatusServiceUnavailable, "push_unavailable")
		return
	}
	middleware.WriteJSON(w, http.StatusAccepted, SendResponse{ID: n.ID})
}

// ClickRequest is posted by the service worker on notificationclick with the
// windows it controls.
type ClickRequest struct {
	Target  string                `json:"target"`
	Data    map[string]any        `json:"data"`
	Clients []domain.WindowClient `json:"clients"`
}

func (h *PushHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	target := req.Target
	if target == "" {
		target = domain.PushPayload{Data: req.Data}.TargetURL()
	}
	middleware.WriteJSON(w, http.StatusOK, domain.ResolveClick(req.Clients, target, h.origin))
}
