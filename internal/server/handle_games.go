package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

type CreateGameRequest struct {
	Level mathquiz.Level `json:"level" enum:"easy,medium,hard,expert"`
	Mode  mathquiz.Mode  `json:"mode" enum:"timed,survival,challenge"`
}

type CreateGameResponse struct {
	ID    string            `json:"id"`
	Token string            `json:"token"`
	Game  mathquiz.Snapshot `json:"game"`
}

// GameStateResponse wraps a snapshot with the game it belongs to.
type GameStateResponse struct {
	ID   string            `json:"id"`
	Game mathquiz.Snapshot `json:"game"`
}

func handleCreateGame(logger *slog.Logger, games *Registry, tokens *Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		// An empty body starts the default game.
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "level must be one of easy, medium, hard, expert and mode one of timed, survival, challenge")
			return
		}

		id, sess, err := games.Create(req.Level, req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		token, err := tokens.Issue(id)
		if err != nil {
			logger.Error("issuing token", "game_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, CreateGameResponse{
			ID:    id,
			Token: token,
			Game:  sess.Snapshot(),
		})
	}
}

func handleGameState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GameStateResponse{
			ID:   gameID(r),
			Game: gameSession(r).Snapshot(),
		})
	}
}
