package handler

import (
	"net/http"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/middleware"
)

// NotFound is the unknown-route view.
func NotFound(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusNotFound, middleware.ErrorResponse{
		Error:   "Page not found",
		Actions: []string{"back", "home"},
	})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed")
}
