// Package live pushes scoreboard updates to WebSocket subscribers whenever
// a solve is credited.
package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Snapshot produces the current scoreboard payload. Wired from main to avoid
// an import cycle with the submission package.
var Snapshot func() (interface{}, error)

var (
	clients   = make(map[*websocket.Conn]bool)
	clientsMu sync.Mutex
	upgrader  = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// HandleScoreboardWS upgrades the connection, sends the current scoreboard,
// and keeps the client registered for broadcasts until it disconnects.
func HandleScoreboardWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if Snapshot != nil {
		if snapshot, err := Snapshot(); err == nil {
			if data, err := json.Marshal(snapshot); err == nil {
				conn.WriteMessage(websocket.TextMessage, data)
			}
		}
	}

	clientsMu.Lock()
	clients[conn] = true
	clientsMu.Unlock()

	defer func() {
		clientsMu.Lock()
		delete(clients, conn)
		clientsMu.Unlock()
	}()

	// Drain client messages (heartbeats) until the connection drops.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends a fresh scoreboard snapshot to every subscriber.
func Broadcast() {
	if Snapshot == nil {
		return
	}
	snapshot, err := Snapshot()
	if err != nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	// Hold the write lock for the whole fan-out: gorilla connections do not
	// allow concurrent writers, so overlapping broadcasts must serialize.
	clientsMu.Lock()
	defer clientsMu.Unlock()
	for conn := range clients {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
