package routes

import (
	"net/http"

	"github.com/contestly/competition-hub/handlers"
	"github.com/contestly/competition-hub/middleware"
	"github.com/contestly/competition-hub/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Competition   *handlers.CompetitionHandler
	Participation *handlers.ParticipationHandler
	Submission    *handlers.SubmissionHandler
	Winner        *handlers.WinnerHandler
	Dashboard     *handlers.DashboardHandler
	Saved         *handlers.SavedCompetitionHandler
	WebSocket     *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, authenticator *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	// Token travels as a query parameter on the upgrade request.
	router.Get("/ws", h.WebSocket.ServeWs)

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/", h.Competition.ListHandler)
		r.Get("/{competitionID}", h.Competition.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)

			r.Post("/{competitionID}/enter", h.Participation.EnterHandler)
			r.Post("/{competitionID}/submissions", h.Submission.SubmitHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", h.Competition.CreateHandler)
			r.Put("/{competitionID}", h.Competition.UpdateHandler)
			r.Post("/{competitionID}/archive", h.Competition.ArchiveHandler)
			r.Delete("/{competitionID}", h.Competition.DeleteHandler)
			r.Post("/{competitionID}/image", h.Competition.UploadImageHandler)
		})
	})

	router.Route("/participations", func(r chi.Router) {
		r.Use(authenticator.Authenticate)

		r.Patch("/{participationID}/progress", h.Participation.UpdateProgressHandler)
	})

	router.Route("/me", func(r chi.Router) {
		r.Use(authenticator.Authenticate)

		r.Get("/dashboard", h.Dashboard.GetHandler)
		r.Post("/saved-competitions", h.Saved.ToggleHandler)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticator.Authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Post("/seed", h.Competition.SeedHandler)
		r.Get("/competitions/{competitionID}/submissions", h.Winner.ListCandidatesHandler)
		r.Patch("/submissions/{submissionID}/status", h.Submission.SetStatusHandler)
		r.Get("/winner-selection", h.Winner.ListEligibleHandler)
		r.Post("/competitions/{competitionID}/winner", h.Winner.SelectWinnerHandler)
	})

	return router
}
