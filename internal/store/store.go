// Package store defines the persistence interface consumed by the lobby
// manager, satisfiable by any in-memory or durable backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpalmie/palmietopia/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a create collides with an
	// existing id.
	ErrAlreadyExists = errors.New("already exists")
)

// InternalError wraps a backend failure.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Msg)
}

// Internalf builds an InternalError from a format string.
func Internalf(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

// Store persists lobbies and games.
type Store interface {
	CreateLobby(ctx context.Context, lobby *models.Lobby) (string, error)
	GetLobby(ctx context.Context, id string) (*models.Lobby, error)
	ListLobbies(ctx context.Context) ([]models.Lobby, error)
	UpdateLobby(ctx context.Context, lobby *models.Lobby) error
	DeleteLobby(ctx context.Context, id string) error

	SaveGame(ctx context.Context, game *models.GameSession) error
	LoadGame(ctx context.Context, id string) (*models.GameSession, error)
}
