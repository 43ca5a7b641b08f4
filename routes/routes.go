package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openleague/league-system/handlers"
	"github.com/openleague/league-system/middleware"
	"github.com/openleague/league-system/models"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Auth,
	authHandler *handlers.AuthHandler,
	divisionHandler *handlers.DivisionHandler,
	matchHandler *handlers.MatchHandler,
	evidenceHandler *handlers.EvidenceHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/signup", authHandler.SignUp)
	router.Post("/auth/signin", authHandler.SignIn)

	router.Get("/leagues", divisionHandler.ListLeagues)

	router.Route("/divisions", func(r chi.Router) {
		// Public browse endpoints
		r.Get("/", divisionHandler.ListDivisions)
		r.Get("/{divisionID}", divisionHandler.GetDivisionByID)
		r.Get("/{divisionID}/entries", divisionHandler.ListEntries)
		r.Get("/{divisionID}/matches", matchHandler.ListDivisionMatches)
		r.Get("/{divisionID}/standings", divisionHandler.GetStandings)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/{divisionID}/entries", divisionHandler.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin))
			r.Post("/", divisionHandler.CreateDivision)
			r.Post("/{divisionID}/schedule", divisionHandler.GenerateSchedule)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatchByID)
		r.Get("/{matchID}/evidence", evidenceHandler.ListEvidence)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/{matchID}/score", matchHandler.ReportScore)
			r.Post("/{matchID}/evidence", evidenceHandler.SubmitEvidence)
			r.Post("/{matchID}/evidence/upload", evidenceHandler.UploadEvidence)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.Authorize(models.RoleAdmin))
			r.Post("/{matchID}/resolution", matchHandler.ResolveDispute)
			r.Post("/{matchID}/cancellation", matchHandler.CancelMatch)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.Authorize(models.RoleAdmin))
		r.Get("/disputes", matchHandler.ListDisputes)
		r.Patch("/entries/{entryID}/payment", divisionHandler.UpdateEntryPayment)
	})

	router.Get("/ws/divisions/{divisionID}", webSocketHandler.ServeWs)
}
