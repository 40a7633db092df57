package server

import (
	"encoding/json"
	"net/http"
	"time"

	"distrofm/db"
	"distrofm/logger"
	"distrofm/model"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatusEventsHandler streams distribution status transitions to the client
// over a websocket. Events come from the Redis status channel, so every
// server instance sees transitions made anywhere in the fleet.
func (h *APIHandler) StatusEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	if db.RedisClient == nil {
		logger.Warn("Status feed requested without Redis connection")
		return
	}

	pubsub := db.SubscribeStatusEvents(r.Context())
	defer pubsub.Close()

	// Drain client frames so close messages are noticed; the feed itself is
	// one-way.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	events := pubsub.Channel()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-clientGone:
			return
		case msg, ok := <-events:
			if !ok {
				return
			}

			var event model.StatusEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("Malformed status event", logger.ErrorField(err))
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				logger.Warn("websocket write", logger.ErrorField(err))
				return
			}
		}
	}
}
