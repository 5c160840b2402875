package server

import (
	"net/http"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	Outcome mathquiz.Outcome  `json:"outcome"`
	Game    mathquiz.Snapshot `json:"game"`
}

// ConflictResponse is returned when the game ignores a request in its
// current state.
type ConflictResponse struct {
	Error string            `json:"error"`
	Game  mathquiz.Snapshot `json:"game"`
}

func handleAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := gameSession(r)
		out := sess.SubmitAnswer(req.Answer)
		if out.Kind == mathquiz.FeedbackNone {
			writeJSON(w, http.StatusConflict, ConflictResponse{
				Error: "no question is awaiting an answer",
				Game:  sess.Snapshot(),
			})
			return
		}

		writeJSON(w, http.StatusOK, AnswerResponse{Outcome: out, Game: sess.Snapshot()})
	}
}
