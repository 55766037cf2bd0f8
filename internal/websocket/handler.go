package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dpalmie/palmietopia/internal/game"
	"github.com/dpalmie/palmietopia/internal/hub"
	"github.com/dpalmie/palmietopia/internal/lobby"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict this in production
		return true
	},
}

// ServerDeps contains references to the subsystems the dispatcher routes
// into.
type ServerDeps struct {
	Lobbies *lobby.Manager
	Games   *game.Manager
	Hub     *hub.Hub
}

// ServeWs upgrades the request and runs a dispatcher for the connection.
// Each connection is identified by a freshly minted opaque player id.
func ServeWs(deps ServerDeps, registry *Registry, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		conn:     conn,
		send:     make(chan []byte, 256),
		playerID: uuid.NewString(),
		deps:     deps,
		registry: registry,
		done:     make(chan struct{}),
	}
	registry.Add(client)
	log.Printf("client %s connected. Total clients: %d", client.playerID, registry.Count())

	go client.writePump()
	go client.readPump()
}
