package handlers

import (
	"encoding/json"
	"net/http"

	"hercule/internal/engine/webhooks"
	"hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
)

type WebhookHandler struct {
	service *webhooks.Service
}

func NewWebhookHandler(service *webhooks.Service) *WebhookHandler {
	return &WebhookHandler{service: service}
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	webhook, err := h.service.Create(req.Name, req.URL)
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusCreated, webhook)
}

func (h *WebhookHandler) Get(w http.ResponseWriter, r *http.Request) {
	webhook, err := h.service.Get(param(r, "webhook_id"))
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, webhook)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List()
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	if list == nil {
		list = []*models.Webhook{}
	}
	respond(w, http.StatusOK, list)
}

func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch webhooks.UpdatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	webhook, err := h.service.Update(param(r, "webhook_id"), patch)
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, webhook)
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(param(r, "webhook_id")); err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Webhook deleted"})
}
