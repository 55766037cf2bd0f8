package models

import (
	"encoding/json"
	"fmt"

	"github.com/dpalmie/palmietopia/internal/game/board"
)

// SessionStatus is the lifecycle state of a game session. Victory carries
// the winner id in GameSession.WinnerID.
type SessionStatus int

const (
	StatusInProgress SessionStatus = iota
	StatusVictory
	// StatusFinished is reserved for orderly shutdown; no rule produces it.
	StatusFinished
)

func (s SessionStatus) String() string {
	switch s {
	case StatusInProgress:
		return "InProgress"
	case StatusVictory:
		return "Victory"
	case StatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the status by name.
func (s SessionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name.
func (s *SessionStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "InProgress":
		*s = StatusInProgress
	case "Victory":
		*s = StatusVictory
	case "Finished":
		*s = StatusFinished
	default:
		return fmt.Errorf("unknown session status: %q", name)
	}
	return nil
}

// GameSession is the authoritative state of one game. PlayerTimesMs and
// PlayerGold are parallel arrays indexed by seat (the position of a
// player in Players). Eliminated players keep their seat so seat indexes
// stay stable.
type GameSession struct {
	ID                string         `json:"id"`
	Map               *board.GameMap `json:"map"`
	Players           []Player       `json:"players"`
	Cities            []*City        `json:"cities"`
	Units             []*Unit        `json:"units"`
	CurrentTurn       int            `json:"current_turn"`
	Status            SessionStatus  `json:"status"`
	WinnerID          string         `json:"winner_id,omitempty"`
	EliminatedPlayers []string       `json:"eliminated_players"`
	PlayerTimesMs     []int64        `json:"player_times_ms"`
	PlayerGold        []int          `json:"player_gold"`
	TurnStartedAtMs   int64          `json:"turn_started_at_ms"`
	BaseTimeMs        int64          `json:"base_time_ms"`
	IncrementMs       int64          `json:"increment_ms"`
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameSession) CurrentPlayer() *Player {
	if g.CurrentTurn < 0 || g.CurrentTurn >= len(g.Players) {
		return nil
	}
	return &g.Players[g.CurrentTurn]
}

// CurrentPlayerTimeMs returns the time bank of the current seat.
func (g *GameSession) CurrentPlayerTimeMs() int64 {
	return g.PlayerTimesMs[g.CurrentTurn]
}

// SeatOf returns the seat index of the given player id, or -1.
func (g *GameSession) SeatOf(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// HasPlayer reports whether the player id belongs to this session.
func (g *GameSession) HasPlayer(playerID string) bool {
	return g.SeatOf(playerID) >= 0
}

// IsEliminated reports whether the player id has been eliminated.
func (g *GameSession) IsEliminated(playerID string) bool {
	for _, id := range g.EliminatedPlayers {
		if id == playerID {
			return true
		}
	}
	return false
}

// UnitByID returns the unit with the given id, or nil.
func (g *GameSession) UnitByID(id string) *Unit {
	for _, u := range g.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UnitAt returns the unit occupying (q, r), or nil.
func (g *GameSession) UnitAt(q, r int) *Unit {
	for _, u := range g.Units {
		if u.Q == q && u.R == r {
			return u
		}
	}
	return nil
}

// CityByID returns the city with the given id, or nil.
func (g *GameSession) CityByID(id string) *City {
	for _, c := range g.Cities {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CityAt returns the city occupying (q, r), or nil.
func (g *GameSession) CityAt(q, r int) *City {
	for _, c := range g.Cities {
		if c.Q == q && c.R == r {
			return c
		}
	}
	return nil
}

// RemoveUnit deletes the unit with the given id, if present.
func (g *GameSession) RemoveUnit(id string) {
	for i, u := range g.Units {
		if u.ID == id {
			g.Units = append(g.Units[:i], g.Units[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the session, suitable for snapshots handed
// to rejoining clients outside the session lock.
func (g *GameSession) Clone() *GameSession {
	out := *g

	if g.Map != nil {
		m := *g.Map
		m.Tiles = append([]board.Tile(nil), g.Map.Tiles...)
		out.Map = &m
	}
	out.Players = append([]Player(nil), g.Players...)
	out.EliminatedPlayers = append([]string(nil), g.EliminatedPlayers...)
	out.PlayerTimesMs = append([]int64(nil), g.PlayerTimesMs...)
	out.PlayerGold = append([]int(nil), g.PlayerGold...)

	out.Cities = make([]*City, len(g.Cities))
	for i, c := range g.Cities {
		cc := *c
		out.Cities[i] = &cc
	}
	out.Units = make([]*Unit, len(g.Units))
	for i, u := range g.Units {
		uu := *u
		out.Units[i] = &uu
	}
	return &out
}
