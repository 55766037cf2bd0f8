package store

import (
	"context"
	"sync"

	"github.com/dpalmie/palmietopia/internal/models"
)

// MemoryStore is the in-process Store backend.
type MemoryStore struct {
	mu      sync.RWMutex
	lobbies map[string]*models.Lobby
	games   map[string]*models.GameSession
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lobbies: make(map[string]*models.Lobby),
		games:   make(map[string]*models.GameSession),
	}
}

// CreateLobby stores a new lobby and returns its id.
func (s *MemoryStore) CreateLobby(ctx context.Context, lobby *models.Lobby) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lobbies[lobby.ID]; exists {
		return "", ErrAlreadyExists
	}
	s.lobbies[lobby.ID] = cloneLobby(lobby)
	return lobby.ID, nil
}

// GetLobby returns the lobby with the given id.
func (s *MemoryStore) GetLobby(ctx context.Context, id string) (*models.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, ok := s.lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneLobby(lobby), nil
}

// ListLobbies returns every stored lobby.
func (s *MemoryStore) ListLobbies(ctx context.Context) ([]models.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Lobby, 0, len(s.lobbies))
	for _, lobby := range s.lobbies {
		out = append(out, *cloneLobby(lobby))
	}
	return out, nil
}

// UpdateLobby replaces a stored lobby.
func (s *MemoryStore) UpdateLobby(ctx context.Context, lobby *models.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[lobby.ID]; !ok {
		return ErrNotFound
	}
	s.lobbies[lobby.ID] = cloneLobby(lobby)
	return nil
}

// DeleteLobby removes a stored lobby.
func (s *MemoryStore) DeleteLobby(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[id]; !ok {
		return ErrNotFound
	}
	delete(s.lobbies, id)
	return nil
}

// SaveGame stores a game snapshot, replacing any previous save.
func (s *MemoryStore) SaveGame(ctx context.Context, game *models.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	return nil
}

// LoadGame returns the saved game with the given id.
func (s *MemoryStore) LoadGame(ctx context.Context, id string) (*models.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return game.Clone(), nil
}

func cloneLobby(l *models.Lobby) *models.Lobby {
	out := *l
	out.Players = append([]models.Player(nil), l.Players...)
	return &out
}
