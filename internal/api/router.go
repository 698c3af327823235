package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "hercule/internal/api/context"
	"hercule/internal/api/handlers"
	"hercule/internal/api/middleware"
	"hercule/internal/pkg/errors"
	"hercule/internal/platform/auth"
	"hercule/internal/platform/models"
)

type Dependencies struct {
	AuthHandler    *handlers.AuthHandler
	TriggerHandler *handlers.TriggerHandler
	WebhookHandler *handlers.WebhookHandler
	UsageHandler   *handlers.UsageHandler
	WebPushHandler *handlers.WebPushHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))
	router.POST("/api/v1/auth/refresh", wrap(deps.AuthHandler.Refresh))
	router.GET("/api/v1/health", wrap(deps.HealthHandler.Check))
	router.GET("/api/v1/webpush/public-key", wrap(deps.WebPushHandler.PublicKey))

	authMid := deps.AuthMiddleware

	router.GET("/api/v1/auth/me",
		chain(deps.AuthHandler.Me, authMid.Handle))

	// Trigger management (mutations admin-gated)
	router.POST("/api/v1/trigger",
		chain(deps.TriggerHandler.Create, authMid.Handle, requireRole(models.RoleAdmin)))
	router.GET("/api/v1/trigger/:trigger_id",
		chain(deps.TriggerHandler.Get, authMid.Handle))
	router.GET("/api/v1/triggers",
		chain(deps.TriggerHandler.List, authMid.Handle))
	router.PUT("/api/v1/trigger/:trigger_id",
		chain(deps.TriggerHandler.Update, authMid.Handle, requireRole(models.RoleAdmin)))
	router.DELETE("/api/v1/trigger/:trigger_id",
		chain(deps.TriggerHandler.Delete, authMid.Handle, requireRole(models.RoleAdmin)))

	// Dispatch
	router.POST("/api/v1/trigger/:trigger_id/run",
		chain(deps.TriggerHandler.Run, authMid.Handle))
	router.POST("/api/v1/triggers/event",
		chain(deps.TriggerHandler.Event, authMid.Handle))

	// Webhook management
	router.POST("/api/v1/webhook",
		chain(deps.WebhookHandler.Create, authMid.Handle, requireRole(models.RoleAdmin)))
	router.GET("/api/v1/webhook/:webhook_id",
		chain(deps.WebhookHandler.Get, authMid.Handle))
	router.GET("/api/v1/webhooks",
		chain(deps.WebhookHandler.List, authMid.Handle))
	router.PUT("/api/v1/webhook/:webhook_id",
		chain(deps.WebhookHandler.Update, authMid.Handle, requireRole(models.RoleAdmin)))
	router.DELETE("/api/v1/webhook/:webhook_id",
		chain(deps.WebhookHandler.Delete, authMid.Handle, requireRole(models.RoleAdmin)))

	// Usage tracking and async callback
	router.GET("/api/v1/webhook-usages",
		chain(deps.UsageHandler.List, authMid.Handle))
	router.GET("/api/v1/webhook-usage/:usage_id",
		chain(deps.UsageHandler.Get, authMid.Handle))
	router.POST("/api/v1/webhook-usage/:usage_id/callback",
		chain(deps.UsageHandler.Callback, authMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
				return
			}

			next(w, r)
		}
	}
}
