package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/mathquiz/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type gameRequest struct {
	ID            string `path:"id"`
	Authorization string `header:"Authorization" description:"Bearer token returned when the game was created."`
}

type answerRequest struct {
	ID            string `path:"id"`
	Authorization string `header:"Authorization"`
	Answer        string `json:"answer"`
}

type streamRequest struct {
	ID    string `path:"id"`
	Token string `query:"token" description:"Game token, for clients that cannot set headers."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "MathQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the arithmetic quiz game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the high-score storage.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start a game")
	createGame.SetDescription("Starts a game at the given level and mode. Returns the game id and a bearer token for it.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createGame)

	// GET /api/games/{id}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}")
	getGame.SetSummary("Get game state")
	getGame.SetDescription("Returns a snapshot of the game. Requires Bearer token.")
	getGame.AddReqStructure(gameRequest{})
	getGame.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /api/games/{id}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/games/{id}/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Submits an answer for the question on screen. Requires Bearer token.")
	postAnswer.AddReqStructure(answerRequest{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postAnswer.AddRespStructure(ConflictResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	controls := []struct {
		path, summary, description string
	}{
		{"/api/games/{id}/pause", "Pause game", "Freezes timers of an active game."},
		{"/api/games/{id}/resume", "Resume game", "Resumes a paused game."},
		{"/api/games/{id}/quit", "Quit game", "Ends the game early. The score is still recorded."},
		{"/api/games/{id}/restart", "Restart game", "Starts a fresh game with the same level and mode once the game has ended."},
	}
	for _, c := range controls {
		op, _ := r.NewOperationContext(http.MethodPost, c.path)
		op.SetSummary(c.summary)
		op.SetDescription(c.description + " Requires Bearer token.")
		op.AddReqStructure(gameRequest{})
		op.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
		op.AddRespStructure(ConflictResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
		_ = r.AddOperation(op)
	}

	// GET /api/games/{id}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game updates. Pass token as query parameter.")
	getEvents.AddReqStructure(streamRequest{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/games/{id}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}/ws")
	getWS.SetSummary("WebSocket event stream")
	getWS.SetDescription("Upgrades to a WebSocket that carries the same events as the SSE stream.")
	getWS.AddReqStructure(streamRequest{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/highscores
	listScores, _ := r.NewOperationContext(http.MethodGet, "/api/highscores")
	listScores.SetSummary("List high scores")
	listScores.SetDescription("Returns the best score per level and mode, highest first.")
	listScores.AddRespStructure(HighScoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listScores)

	// DELETE /api/highscores
	clearScores, _ := r.NewOperationContext(http.MethodDelete, "/api/highscores")
	clearScores.SetSummary("Clear high scores")
	clearScores.SetDescription("Removes every high score. Requires confirmation, and the admin password when one is configured.")
	clearScores.AddReqStructure(ClearHighScoresRequest{})
	clearScores.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	clearScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	clearScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(clearScores)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
