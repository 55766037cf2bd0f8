// Package lobby manages pre-game rooms: creation, join/leave with host
// election, and the handoff into a running game session.
package lobby

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/dpalmie/palmietopia/internal/game"
	"github.com/dpalmie/palmietopia/internal/hub"
	"github.com/dpalmie/palmietopia/internal/models"
	"github.com/dpalmie/palmietopia/internal/protocol"
	"github.com/dpalmie/palmietopia/internal/store"
)

// Manager drives lobby lifecycle over the Store and broadcast hub.
type Manager struct {
	store      store.Store
	hub        *hub.Hub
	games      *game.Manager
	maxPlayers int
}

// NewManager creates a lobby manager.
func NewManager(st store.Store, h *hub.Hub, games *game.Manager, maxPlayers int) *Manager {
	if maxPlayers <= 0 {
		maxPlayers = 5
	}
	return &Manager{store: st, hub: h, games: games, maxPlayers: maxPlayers}
}

// Create mints a lobby with the caller as host, persists it, and sets up
// its broadcast publisher.
func (m *Manager) Create(ctx context.Context, playerID, hostName string, size models.MapSize) (*models.Lobby, error) {
	host := models.Player{
		ID:    playerID,
		Name:  hostName,
		Color: models.ColorForSeat(0),
	}
	lobby := models.NewLobby(uuid.NewString(), host, size, m.maxPlayers)

	if _, err := m.store.CreateLobby(ctx, lobby); err != nil {
		return nil, game.Errorf(game.ErrInternal, "failed to create lobby: %v", err)
	}

	// The caller subscribes before the first LobbyUpdated goes out, so
	// the publisher is only set up here, not published to.
	m.hub.GetOrCreate(lobby.ID)
	return lobby, nil
}

// Join seats a new player, assigning its color from the seat index.
func (m *Manager) Join(ctx context.Context, lobbyID, playerID, name string) (*models.Lobby, error) {
	lobby, err := m.getLobby(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.HasPlayer(playerID) {
		return nil, game.Errorf(game.ErrAlreadyInLobby, "you are already in this lobby")
	}
	if !lobby.CanJoin() {
		if lobby.Status != models.LobbyWaiting {
			return nil, game.Errorf(game.ErrLobbyClosed, "lobby is closed")
		}
		return nil, game.Errorf(game.ErrLobbyFull, "lobby is full")
	}

	lobby.Players = append(lobby.Players, models.Player{
		ID:    playerID,
		Name:  name,
		Color: models.ColorForSeat(len(lobby.Players)),
	})
	if err := m.store.UpdateLobby(ctx, lobby); err != nil {
		return nil, game.Errorf(game.ErrInternal, "failed to join lobby: %v", err)
	}

	m.hub.GetOrCreate(lobbyID).Publish(protocol.Encode(protocol.NewLobbyUpdated(lobby)))
	return lobby, nil
}

// Leave unseats a player. An empty lobby is deleted, and so is its
// publisher if the lobby never started; a departing host hands the lobby
// to the first remaining player.
func (m *Manager) Leave(ctx context.Context, lobbyID, playerID string) error {
	lobby, err := m.getLobby(ctx, lobbyID)
	if err != nil {
		return err
	}

	players := lobby.Players[:0]
	for _, p := range lobby.Players {
		if p.ID != playerID {
			players = append(players, p)
		}
	}
	lobby.Players = players

	if len(lobby.Players) == 0 {
		if err := m.store.DeleteLobby(ctx, lobbyID); err != nil {
			return game.Errorf(game.ErrInternal, "failed to delete lobby: %v", err)
		}
		// A lobby that already became a session keeps its publisher; the
		// session timer tears it down when the game ends.
		if lobby.Status == models.LobbyWaiting {
			m.hub.Remove(lobbyID)
		}
		return nil
	}

	if lobby.HostID == playerID {
		lobby.HostID = lobby.Players[0].ID
		log.Printf("lobby %s: host left, promoted %s", lobbyID, lobby.HostID)
	}
	if err := m.store.UpdateLobby(ctx, lobby); err != nil {
		return game.Errorf(game.ErrInternal, "failed to update lobby: %v", err)
	}

	pub := m.hub.GetOrCreate(lobbyID)
	pub.Publish(protocol.Encode(protocol.NewLobbyUpdated(lobby)))
	pub.Publish(protocol.Encode(protocol.NewPlayerLeft(playerID)))
	return nil
}

// Start transitions a lobby into a running game session. Only the host
// may start. The lobby's publisher is handed to the session so
// subscribers established during the lobby phase keep receiving events.
func (m *Manager) Start(ctx context.Context, lobbyID, requesterID string) (*models.GameSession, error) {
	lobby, err := m.getLobby(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.HostID != requesterID {
		return nil, game.Errorf(game.ErrIllegalMove, "only the host can start the game")
	}
	if !lobby.CanStart() {
		if lobby.Status != models.LobbyWaiting {
			return nil, game.Errorf(game.ErrLobbyClosed, "lobby is closed")
		}
		return nil, game.Errorf(game.ErrIllegalMove, "need at least 2 players to start")
	}

	session, err := game.NewSessionFromLobby(lobby, m.games.Config())
	if err != nil {
		return nil, err
	}

	lobby.Status = models.LobbyInGame
	if err := m.store.UpdateLobby(ctx, lobby); err != nil {
		return nil, game.Errorf(game.ErrInternal, "failed to update lobby: %v", err)
	}
	if err := m.store.SaveGame(ctx, session); err != nil {
		return nil, game.Errorf(game.ErrInternal, "failed to save game: %v", err)
	}

	pub := m.hub.GetOrCreate(lobbyID)
	m.games.Start(session, pub)
	pub.Publish(protocol.Encode(protocol.NewGameStarted(session)))
	log.Printf("lobby %s started game %s with %d players", lobbyID, session.ID, len(session.Players))
	return session, nil
}

// Get returns the lobby with the given id.
func (m *Manager) Get(ctx context.Context, lobbyID string) (*models.Lobby, error) {
	return m.getLobby(ctx, lobbyID)
}

// ListWaiting returns lobbies that are open for joining.
func (m *Manager) ListWaiting(ctx context.Context) ([]models.Lobby, error) {
	lobbies, err := m.store.ListLobbies(ctx)
	if err != nil {
		return nil, game.Errorf(game.ErrInternal, "failed to list lobbies: %v", err)
	}
	waiting := lobbies[:0]
	for _, l := range lobbies {
		if l.Status == models.LobbyWaiting {
			waiting = append(waiting, l)
		}
	}
	return waiting, nil
}

func (m *Manager) getLobby(ctx context.Context, lobbyID string) (*models.Lobby, error) {
	lobby, err := m.store.GetLobby(ctx, lobbyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, game.Errorf(game.ErrNotFound, "lobby not found")
		}
		return nil, game.Errorf(game.ErrInternal, "failed to get lobby: %v", err)
	}
	return lobby, nil
}
