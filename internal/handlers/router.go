package handlers

import (
	"net/http"

	"swipe-match-backend/internal/middleware"
	"swipe-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Services holds what the HTTP surface is built on
type Services struct {
	Profiles     *services.ProfileService
	Interactions *services.InteractionService
	Matches      *services.MatchStore
	WSHub        *services.WSHub
}

// NewRouter wires every route with the shared middleware stack
func NewRouter(svc Services, logger zerolog.Logger) http.Handler {
	profileHandler := NewProfileHandler(svc.Profiles)
	interactionHandler := NewInteractionHandler(svc.Interactions, svc.WSHub)
	matchHandler := NewMatchHandler(svc.Matches)
	wsHandler := NewWebSocketHandler(svc.WSHub)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profiles", profileHandler.GetProfiles)
		r.Post("/interactions", interactionHandler.CreateInteraction)

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.ListMatches)
			r.Post("/", matchHandler.CreateMatch)
			r.Delete("/", matchHandler.ClearMatches)
			r.Get("/storage", matchHandler.GetStorageInfo)
			r.Delete("/error", matchHandler.ClearError)
			r.Get("/{match_id}", matchHandler.GetMatch)
			r.Delete("/{match_id}", matchHandler.Unmatch)
			r.Post("/{match_id}/messages", matchHandler.AddMessage)
		})
	})

	r.Get("/ws", wsHandler.HandleWebSocket)

	return r
}
