package handlers

import (
	"net/http"

	"hercule/internal/platform/config"
)

// WebPushHandler exposes the VAPID application server key browsers need to
// create a push subscription.
type WebPushHandler struct {
	cfg config.WebPushConfig
}

func NewWebPushHandler(cfg config.WebPushConfig) *WebPushHandler {
	return &WebPushHandler{cfg: cfg}
}

func (h *WebPushHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"public_key": h.cfg.VAPIDPublicKey})
}
