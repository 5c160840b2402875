package server

import (
	"net/http"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

// handleControl runs a state transition and publishes the resulting state.
// A transition the game ignores in its current state answers 409.
func handleControl(broker *Broker, action func(*mathquiz.Session) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := gameSession(r)
		if !action(sess) {
			writeJSON(w, http.StatusConflict, ConflictResponse{
				Error: "not allowed while game is " + sess.State().String(),
				Game:  sess.Snapshot(),
			})
			return
		}

		snap := sess.Snapshot()
		broker.Publish(gameID(r), GameEvent{Type: EventState, State: snap.State.String()})
		writeJSON(w, http.StatusOK, GameStateResponse{ID: gameID(r), Game: snap})
	}
}
