package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/DoyleJ11/room-status/internal/types"
	"github.com/DoyleJ11/room-status/internal/view"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// Handler streams every render of c to the socket and runs activations sent by the browser.
func Handler(c *view.Container, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan view.Snapshot, 8)
		clientID := uuid.NewString()

		log := log.With(zap.String("client_id", clientID))

		if err := c.Join(r.Context(), clientID, out); err != nil {
			log.Debug("layout subscriber rejected", zap.Error(err))
			_ = conn.Close(websocket.StatusGoingAway, "layout unavailable")
			return
		}
		defer func() {
			// the request context is usually gone by now
			leaveCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = c.Leave(leaveCtx, clientID)
		}()

		log.Debug("layout subscriber joined")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				write(writeCtx, conn, types.ServerMessage{Type: "Layout", Version: snap.Version, HTML: snap.HTML})
			}
			// outbox closed: dropped as slow or container shut down
			writeCancel()
			_ = conn.Close(websocket.StatusGoingAway, "layout stream ended")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(writeCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Debug("layout subscriber left")
				default:
					log.Debug("websocket read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				write(writeCtx, conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}
			if cm.Type != "Activate" || cm.Action == "" {
				write(writeCtx, conn, types.ServerMessage{Type: "Error", Error: "unknown type"})
				continue
			}

			// activations refresh the layout, which arrives through out
			if err := c.Activate(writeCtx, cm.Action); err != nil {
				msg := "action failed"
				if errors.Is(err, view.ErrUnknownAction) {
					msg = "unknown action"
				}
				log.Warn("activation failed", zap.String("action", cm.Action), zap.Error(err))
				write(writeCtx, conn, types.ServerMessage{Type: "Error", Action: cm.Action, Error: msg})
			}
		}
	}
}

func write(parent context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, _ := json.Marshal(msg)
	ctx, cancel := context.WithTimeout(parent, 3*time.Second)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
