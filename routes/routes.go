package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/Dosada05/portal-arena/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	sessionHandler *handlers.SessionHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
	staticDir string,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler)
		r.Post("/session", sessionHandler.CreateSessionHandler)

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", tournamentHandler.CreateHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByIDHandler)
				r.Patch("/", tournamentHandler.UpdateFieldsHandler)
				r.Put("/settings", tournamentHandler.UpdateSettingsHandler)
				r.Post("/bracket", tournamentHandler.GenerateBracketHandler)
				r.Post("/matches/{matchID}/result", tournamentHandler.SubmitResultHandler)
			})
		})
	})

	router.Get("/ws", webSocketHandler.ServeWs)

	router.Get("/*", spaHandler(staticDir))
}

// spaHandler serves the built client assets. Unknown paths fall back to
// index.html so client-side routing keeps working on refresh.
func spaHandler(staticDir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(staticDir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(staticDir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	}
}
