package handlers

import (
	"encoding/json"
	"net/http"

	"hercule/internal/engine/usage"
	"hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
)

type UsageHandler struct {
	service *usage.Service
}

func NewUsageHandler(service *usage.Service) *UsageHandler {
	return &UsageHandler{service: service}
}

func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.URL.Query().Get("webhook_id"))
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	if list == nil {
		list = []*models.WebhookUsage{}
	}
	respond(w, http.StatusOK, list)
}

func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(param(r, "usage_id"))
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

// Callback receives the remote webhook receiver's async result and routes it
// to the push bridge.
func (h *UsageHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var payload usage.CallbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.service.Callback(param(r, "usage_id"), payload); err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Webhook usage callback successful"})
}
