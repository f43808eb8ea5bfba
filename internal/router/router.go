package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"orphancare-learning/internal/handlers"
	"orphancare-learning/internal/middleware"
	"orphancare-learning/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	quizLimiter *middleware.RateLimiter,
	catalogHandler *handlers.CatalogHandler,
	reviewHandler *handlers.ReviewHandler,
	watchHandler *handlers.WatchHandler,
	completionHandler *handlers.CompletionHandler,
	libraryHandler *handlers.LibraryHandler,
	wsHub *websocket.Hub,
	watchStream *websocket.WatchStream,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── WebSocket (token query param) ────
		r.Get("/ws", wsHub.HandleWebSocket)
		r.Get("/ws/watch/{id}", watchStream.Handle)

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			// ──── Roadmaps & Lessons ────
			r.Get("/roadmaps", catalogHandler.Roadmaps)
			r.Get("/videos", catalogHandler.Videos)
			r.Route("/lessons/{id}", func(r chi.Router) {
				r.Get("/quiz", catalogHandler.Quiz)
				r.With(quizLimiter.Middleware).Post("/quiz", reviewHandler.SubmitQuiz)
				r.With(quizLimiter.Middleware).Post("/review-now", reviewHandler.ReviewNow)
			})

			// ──── Reviews ────
			r.Route("/reviews", func(r chi.Router) {
				r.Get("/schedules", reviewHandler.Schedules)
				r.Get("/due", reviewHandler.Due)
				r.Post("/import", reviewHandler.Import)
			})

			// ──── Watch Sessions ────
			r.Route("/watch-sessions", func(r chi.Router) {
				r.Post("/", watchHandler.Start)
				r.Get("/{id}", watchHandler.Get)
				r.Put("/{id}/duration", watchHandler.SetDuration)
				r.Post("/{id}/samples", watchHandler.Sample)
				r.Delete("/{id}", watchHandler.Stop)
			})

			r.Get("/completions", completionHandler.List)

			// ──── Library ────
			r.Route("/library", func(r chi.Router) {
				r.Get("/books", libraryHandler.Books)
				r.Get("/recommendations", libraryHandler.Recommendations)
			})
		})
	})

	return r
}
