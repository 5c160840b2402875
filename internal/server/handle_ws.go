package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const wsWriteTimeout = 5 * time.Second

// handleWS streams the same events as handleEvents over a WebSocket.
// Client messages are discarded; the game is driven over HTTP.
func handleWS(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameID(r)
		snap, _ := json.Marshal(GameStateResponse{ID: id, Game: gameSession(r).Snapshot()})

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "game_id", id, "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe(id)
		defer broker.Unsubscribe(id, ch)

		ctx := conn.CloseRead(r.Context())

		if err := writeWS(ctx, conn, snap); err != nil {
			logger.Debug("websocket write failed", "game_id", id, "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket closed", "game_id", id)
				return
			case data := <-ch:
				if err := writeWS(ctx, conn, data); err != nil {
					logger.Debug("websocket write failed", "game_id", id, "error", err)
					return
				}
			}
		}
	}
}

func writeWS(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
