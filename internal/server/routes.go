package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/mathquiz/internal/handler/health"
	"github.com/playperu/mathquiz/internal/mathquiz"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("MathQuiz API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Health).Routes())

	r.Post("/api/games", handleCreateGame(logger, deps.Games, deps.Tokens))

	// Game routes — {id} and its token resolved by gameMiddleware.
	r.Route("/api/games/{id}", func(r chi.Router) {
		r.Use(gameMiddleware(deps.Games, deps.Tokens))
		r.Get("/", handleGameState())
		r.Post("/answer", handleAnswer())
		r.Post("/pause", handleControl(deps.Broker, (*mathquiz.Session).Pause))
		r.Post("/resume", handleControl(deps.Broker, (*mathquiz.Session).Resume))
		r.Post("/quit", handleControl(deps.Broker, (*mathquiz.Session).Quit))
		r.Post("/restart", handleControl(deps.Broker, (*mathquiz.Session).Restart))
		r.Get("/events", handleEvents(deps.Broker))
		r.Get("/ws", handleWS(logger, deps.Broker))
	})

	r.Get("/api/highscores", handleListHighScores(logger, deps.Scores))
	r.Delete("/api/highscores", handleClearHighScores(logger, deps.Scores, deps.AdminHash))

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
