package handlers

import (
	"encoding/json"
	"net/http"

	"hercule/internal/engine/triggers"
	"hercule/internal/engine/webhooks"
	"hercule/internal/pkg/errors"
	"hercule/internal/platform/models"
)

type TriggerHandler struct {
	service    *triggers.Service
	matcher    *triggers.Matcher
	dispatcher *webhooks.Dispatcher
}

func NewTriggerHandler(service *triggers.Service, matcher *triggers.Matcher, dispatcher *webhooks.Dispatcher) *TriggerHandler {
	return &TriggerHandler{service: service, matcher: matcher, dispatcher: dispatcher}
}

func (h *TriggerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req triggers.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	trigger, err := h.service.Create(req)
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusCreated, trigger)
}

func (h *TriggerHandler) Get(w http.ResponseWriter, r *http.Request) {
	trigger, err := h.service.Get(param(r, "trigger_id"))
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, trigger)
}

func (h *TriggerHandler) List(w http.ResponseWriter, r *http.Request) {
	event := models.EventType(r.URL.Query().Get("event"))
	url := r.URL.Query().Get("url")

	list, err := h.service.List(event, url)
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	if list == nil {
		list = []*models.Trigger{}
	}
	respond(w, http.StatusOK, list)
}

func (h *TriggerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch triggers.UpdatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	trigger, err := h.service.Update(param(r, "trigger_id"), patch)
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, trigger)
}

func (h *TriggerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(param(r, "trigger_id")); err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Trigger deleted"})
}

type dispatchRequest struct {
	Event               models.EventType    `json:"event"`
	Context             models.EventContext `json:"context"`
	WebPushSubscription json.RawMessage     `json:"web_push_subscription,omitempty"`
}

// Run dispatches one trigger's webhook directly, bypassing event matching.
func (h *TriggerHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	trigger, err := h.service.Get(param(r, "trigger_id"))
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}

	event := req.Event
	if event == "" {
		event = trigger.Event
	}
	if !event.Valid() {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unknown event type", nil)
		return
	}

	result, err := h.dispatcher.Call(trigger.WebhookID, event, req.Context, req.WebPushSubscription)
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

// Event matches all applicable triggers and dispatches each webhook in stored
// order. The first dispatch failure aborts the remaining calls and is surfaced
// as the response; zero matches yields an empty list, not an error.
func (h *TriggerHandler) Event(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if !req.Event.Valid() {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unknown event type", nil)
		return
	}

	matched, err := h.matcher.Match(req.Event, req.Context)
	if err != nil {
		errors.WriteFromError(w, err)
		return
	}

	results := make([]*webhooks.Result, 0, len(matched))
	for _, trigger := range matched {
		result, err := h.dispatcher.Call(trigger.WebhookID, req.Event, req.Context, req.WebPushSubscription)
		if err != nil {
			errors.WriteFromError(w, err)
			return
		}
		results = append(results, result)
	}
	respond(w, http.StatusOK, results)
}
