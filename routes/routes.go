package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/stefanciobanu13/galero/handlers"
	"github.com/stefanciobanu13/galero/middleware"
)

func SetupRoutes(
	router chi.Router,
	editionHandler *handlers.EditionHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
	corsOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Get("/ws/editions/{editionID}", webSocketHandler.ServeWs)

	router.Route("/editions", func(r chi.Router) {
		r.Get("/current", editionHandler.GetCurrent)
		r.Get("/current/standings", editionHandler.GetStandings)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(middleware.RoleAdmin))

			r.Post("/{editionID}/load", editionHandler.LoadEdition)
			r.Post("/current/schedule", editionHandler.CreateSchedule)
			r.Post("/current/goals", editionHandler.AddGoal)
			r.Delete("/current/goals/{goalID}", editionHandler.RemoveGoal)
			r.Put("/current/matches/{matchID}/played", editionHandler.SetMatchPlayed)
			r.Put("/current/draft", editionHandler.SetDraftMode)
			r.Post("/current/save", editionHandler.SaveEdition)
			r.Post("/current/reset", editionHandler.Reset)
		})
	})
}
