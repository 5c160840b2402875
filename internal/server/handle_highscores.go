package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/mathquiz/internal/highscore"
	"github.com/playperu/mathquiz/internal/mathquiz"
)

const noScoresMessage = "no scores yet"

type HighScoreEntry struct {
	mathquiz.HighScore
	LevelLabel string `json:"levelLabel"`
	ModeLabel  string `json:"modeLabel"`
}

type HighScoresResponse struct {
	Entries []HighScoreEntry `json:"entries"`
	Message string           `json:"message,omitempty"`
}

type ClearHighScoresRequest struct {
	Confirm  bool   `json:"confirm"`
	Password string `json:"password"`
}

func handleListHighScores(logger *slog.Logger, scores *highscore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := scores.LoadAll(r.Context())
		if err != nil {
			logger.Error("loading high scores", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := HighScoresResponse{Entries: make([]HighScoreEntry, 0, len(rows))}
		for _, hs := range rows {
			resp.Entries = append(resp.Entries, HighScoreEntry{
				HighScore:  hs,
				LevelLabel: hs.Level.Label(),
				ModeLabel:  hs.Mode.Label(),
			})
		}
		if len(resp.Entries) == 0 {
			resp.Message = noScoresMessage
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleClearHighScores(logger *slog.Logger, scores *highscore.Store, adminHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClearHighScoresRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !req.Confirm {
			writeError(w, http.StatusBadRequest, "confirm must be true")
			return
		}
		if err := checkAdminPassword(adminHash, req.Password); err != nil {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}

		if err := scores.ClearAll(r.Context()); err != nil {
			logger.Error("clearing high scores", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
