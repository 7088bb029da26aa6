package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader        websocket.Upgrader
	MaxMessageBytes int64
}

func NewWebSocket(maxMessageBytes int64) (*WebSocket, error) {
	upgrader := websocket.Upgrader{
		ReadBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	ws := &WebSocket{
		Upgrader:        upgrader,
		MaxMessageBytes: maxMessageBytes,
	}

	return ws, nil
}
