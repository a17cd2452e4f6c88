package api

import (
	"net/http"

	"github.com/ewhitmore/lawdesk/internal/api/handlers"
	"github.com/ewhitmore/lawdesk/internal/api/middleware"
	"github.com/ewhitmore/lawdesk/internal/config"
	"github.com/ewhitmore/lawdesk/internal/service"
	"github.com/ewhitmore/lawdesk/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	billingHandler := handlers.NewBillingHandler(services.Billing)
	caseHandler := handlers.NewCaseHandler(services.Case)
	notificationHandler := handlers.NewNotificationHandler(services.Notification)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Get("/google/url", authHandler.GoogleURL)
			r.Post("/google/callback", authHandler.GoogleCallback)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/session", authHandler.Session)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/cases", func(r chi.Router) {
				r.Get("/", caseHandler.List)
				r.Get("/{id}", caseHandler.Get)
				r.Get("/{id}/quotes", caseHandler.ListQuotes)
			})

			r.Route("/billing", func(r chi.Router) {
				r.Post("/checkout-session", billingHandler.CreateCheckout)
				r.Post("/verify", billingHandler.VerifyPayment)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/{id}/read", notificationHandler.MarkRead)
				r.Post("/read-all", notificationHandler.MarkAllRead)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
