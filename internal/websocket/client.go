// Package websocket runs the per-connection command dispatcher: decoded
// client commands are routed into the lobby and session managers, and
// broadcast events from the connection's current subscription are
// forwarded to the peer.
package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dpalmie/palmietopia/internal/hub"
	"github.com/dpalmie/palmietopia/internal/models"
	"github.com/dpalmie/palmietopia/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client is the dispatcher for one connection. The read pump owns
// lobbyID/gameID/sub; the write pump drains send.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	playerID string
	deps     ServerDeps
	registry *Registry

	lobbyID string
	gameID  string
	sub     *hub.Subscription
	done    chan struct{}
}

func (c *Client) readPump() {
	defer c.disconnect()
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		message = bytes.TrimSpace(bytes.ReplaceAll(message, newline, space))

		env, err := protocol.ParseEnvelope(message)
		if err != nil {
			c.reply(protocol.NewError(err.Error()))
			continue
		}
		c.handleCommand(env.Type, message)
	}
}

func (c *Client) handleCommand(cmdType string, message []byte) {
	switch cmdType {
	case protocol.CmdListLobbies:
		c.handleListLobbies()
	case protocol.CmdCreateLobby:
		c.handleCreateLobby(message)
	case protocol.CmdJoinLobby:
		c.handleJoinLobby(message)
	case protocol.CmdLeaveLobby:
		c.handleLeaveLobby()
	case protocol.CmdStartGame:
		c.handleStartGame()
	case protocol.CmdEndTurn:
		c.handleEndTurn(message)
	case protocol.CmdRejoinGame:
		c.handleRejoinGame(message)
	case protocol.CmdMoveUnit:
		c.handleMoveUnit(message)
	case protocol.CmdAttackUnit:
		c.handleAttackUnit(message)
	case protocol.CmdFortifyUnit:
		c.handleFortifyUnit(message)
	case protocol.CmdBuyUnit:
		c.handleBuyUnit(message)
	default:
		c.reply(protocol.NewError(fmt.Sprintf("unknown command type: %s", cmdType)))
	}
}

func (c *Client) handleListLobbies() {
	lobbies, err := c.deps.Lobbies.ListWaiting(context.Background())
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	c.reply(protocol.NewLobbyList(lobbies))
}

func (c *Client) handleCreateLobby(message []byte) {
	var cmd protocol.CreateLobbyCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}
	if c.lobbyID != "" {
		c.reply(protocol.NewError("Already in a lobby. Leave first before creating a new one."))
		return
	}
	size, err := models.MapSizeFromString(cmd.MapSize)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}

	lobbyState, err := c.deps.Lobbies.Create(context.Background(), c.playerID, cmd.PlayerName, size)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}

	c.setSubscription(c.deps.Hub.Subscribe(lobbyState.ID))
	c.lobbyID = lobbyState.ID

	c.reply(protocol.NewLobbyCreated(lobbyState.ID, c.playerID))
}

func (c *Client) handleJoinLobby(message []byte) {
	var cmd protocol.JoinLobbyCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}
	if c.lobbyID != "" {
		c.reply(protocol.NewError("Already in a lobby. Leave first before joining another."))
		return
	}

	if _, err := c.deps.Lobbies.Get(context.Background(), cmd.LobbyID); err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}

	// Subscribe before the join broadcast so the joiner also receives
	// the LobbyUpdated that announces it.
	sub := c.deps.Hub.Subscribe(cmd.LobbyID)
	lobbyState, err := c.deps.Lobbies.Join(context.Background(), cmd.LobbyID, c.playerID, cmd.PlayerName)
	if err != nil {
		sub.Close()
		c.reply(protocol.NewError(err.Error()))
		return
	}

	c.setSubscription(sub)
	c.lobbyID = lobbyState.ID
	c.reply(protocol.NewJoinedLobby(lobbyState, c.playerID))
}

func (c *Client) handleLeaveLobby() {
	if c.lobbyID == "" {
		return
	}
	if err := c.deps.Lobbies.Leave(context.Background(), c.lobbyID, c.playerID); err != nil {
		log.Printf("leave lobby %s: %v", c.lobbyID, err)
	}
	c.lobbyID = ""
	c.dropSubscription()
}

func (c *Client) handleStartGame() {
	if c.lobbyID == "" {
		c.reply(protocol.NewError("Not in a lobby"))
		return
	}
	session, err := c.deps.Lobbies.Start(context.Background(), c.lobbyID, c.playerID)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	c.gameID = session.ID
	c.reply(protocol.NewGameStarted(session))
}

func (c *Client) handleEndTurn(message []byte) {
	var cmd protocol.EndTurnCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}
	evt, err := c.deps.Games.EndTurn(cmd.GameID, cmd.PlayerID)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	c.reply(evt)
}

func (c *Client) handleRejoinGame(message []byte) {
	var cmd protocol.RejoinGameCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}

	session, ok := c.deps.Games.GetSession(cmd.GameID)
	if !ok {
		c.reply(protocol.NewError("Game not found"))
		return
	}
	if !session.HasPlayer(cmd.PlayerID) {
		c.reply(protocol.NewError("You are not in this game"))
		return
	}

	if pub, ok := c.deps.Games.GetPublisher(cmd.GameID); ok {
		c.setSubscription(pub.Subscribe())
		c.gameID = cmd.GameID
		log.Printf("player %s rejoined game %s", cmd.PlayerID, cmd.GameID)
	}
	c.reply(protocol.NewGameRejoined(session))
}

func (c *Client) handleMoveUnit(message []byte) {
	var cmd protocol.MoveUnitCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}
	evt, err := c.deps.Games.MoveUnit(cmd.GameID, cmd.PlayerID, cmd.UnitID, cmd.ToQ, cmd.ToR)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	c.reply(evt)
}

func (c *Client) handleAttackUnit(message []byte) {
	var cmd protocol.AttackUnitCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}
	evt, err := c.deps.Games.AttackUnit(cmd.GameID, cmd.PlayerID, cmd.AttackerID, cmd.DefenderID)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	c.reply(evt)
}

func (c *Client) handleFortifyUnit(message []byte) {
	var cmd protocol.FortifyUnitCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}
	evt, err := c.deps.Games.FortifyUnit(cmd.GameID, cmd.PlayerID, cmd.UnitID)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	c.reply(evt)
}

func (c *Client) handleBuyUnit(message []byte) {
	var cmd protocol.BuyUnitCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.reply(protocol.NewError(fmt.Sprintf("invalid message format: %v", err)))
		return
	}
	unitType, err := models.UnitTypeFromString(cmd.UnitType)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	evt, err := c.deps.Games.BuyUnit(cmd.GameID, cmd.PlayerID, cmd.CityID, unitType)
	if err != nil {
		c.reply(protocol.NewError(err.Error()))
		return
	}
	c.reply(evt)
}

// reply sends a direct event to this connection only.
func (c *Client) reply(evt any) {
	data := protocol.Encode(evt)
	if data == nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

// setSubscription replaces the connection's current subscription and
// forwards its messages verbatim to the peer.
func (c *Client) setSubscription(sub *hub.Subscription) {
	c.dropSubscription()
	c.sub = sub
	go func() {
		for msg := range sub.C() {
			select {
			case c.send <- msg:
			case <-c.done:
				return
			}
		}
	}()
}

func (c *Client) dropSubscription() {
	if c.sub != nil {
		c.sub.Close()
		c.sub = nil
	}
}

// disconnect tears down this dispatcher only; in-progress sessions keep
// running and the player may come back via RejoinGame.
func (c *Client) disconnect() {
	close(c.done)
	c.dropSubscription()
	if c.lobbyID != "" {
		if err := c.deps.Lobbies.Leave(context.Background(), c.lobbyID, c.playerID); err != nil {
			log.Printf("leave lobby %s on disconnect: %v", c.lobbyID, err)
		}
	}
	c.registry.Remove(c.playerID)
	_ = c.conn.Close()
	log.Printf("client %s disconnected. Total clients: %d", c.playerID, c.registry.Count())
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			if err := c.handleWriteMessage(message, ok); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.handlePing(); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleWriteMessage(message []byte, ok bool) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if !ok {
		_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
		return fmt.Errorf("channel closed")
	}

	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}
	return w.Close()
}

func (c *Client) handlePing() error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}
