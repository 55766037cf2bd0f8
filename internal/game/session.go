package game

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/dpalmie/palmietopia/internal/game/board"
	"github.com/dpalmie/palmietopia/internal/models"
)

// NewSessionFromLobby generates the map, places one capitol city and one
// starting Conscript per player, and initializes the parallel seat arrays.
func NewSessionFromLobby(lobby *models.Lobby, cfg Config) (*models.GameSession, error) {
	if len(lobby.Players) < 2 {
		return nil, Errorf(ErrIllegalMove, "need at least 2 players to start")
	}

	radius := lobby.MapSize.Radius()
	gameMap := board.Generate(radius)
	starts, err := selectStartingPositions(gameMap, len(lobby.Players))
	if err != nil {
		return nil, err
	}

	session := &models.GameSession{
		ID:                uuid.NewString(),
		Map:               gameMap,
		Players:           append([]models.Player(nil), lobby.Players...),
		CurrentTurn:       0,
		Status:            models.StatusInProgress,
		EliminatedPlayers: []string{},
		PlayerTimesMs:     make([]int64, len(lobby.Players)),
		PlayerGold:        make([]int, len(lobby.Players)),
		BaseTimeMs:        cfg.BaseTimeMs,
		IncrementMs:       cfg.IncrementMs,
	}

	for seat, p := range lobby.Players {
		session.PlayerTimesMs[seat] = cfg.BaseTimeMs
		session.PlayerGold[seat] = cfg.StartingGold

		pos := starts[seat]
		session.Cities = append(session.Cities, &models.City{
			ID:        uuid.NewString(),
			OwnerID:   p.ID,
			Q:         pos.Q,
			R:         pos.R,
			Name:      fmt.Sprintf("%s's Capitol", p.Name),
			IsCapitol: true,
		})

		stats := models.UnitConscript.Stats()
		session.Units = append(session.Units, &models.Unit{
			ID:                uuid.NewString(),
			OwnerID:           p.ID,
			Type:              models.UnitConscript,
			Q:                 pos.Q,
			R:                 pos.R,
			MovementRemaining: stats.BaseMovement,
			HP:                stats.MaxHP,
			MaxHP:             stats.MaxHP,
		})
	}

	return session, nil
}

// selectStartingPositions picks one tile per seat by sector: each seat
// targets a point at angle 2*pi*i/n on a circle of radius 0.7R, then
// takes the closest startable tile that keeps hex-distance
// max(R/2, 3) from every previously chosen position. Ties break by
// first-scan order.
func selectStartingPositions(m *board.GameMap, n int) ([]board.Hex, error) {
	radius := m.Radius
	minDist := radius / 2
	if minDist < 3 {
		minDist = 3
	}

	chosen := make([]board.Hex, 0, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		target := board.NewHex(
			int(math.Round(math.Cos(theta)*0.7*float64(radius))),
			int(math.Round(math.Sin(theta)*0.7*float64(radius))),
		)

		var best *board.Tile
		bestDist := 0
		for t := range m.Tiles {
			tile := &m.Tiles[t]
			if !tile.Terrain.CanStartOn() {
				continue
			}
			if tooClose(tile.Coord(), chosen, minDist) {
				continue
			}
			d := tile.Coord().Distance(target)
			if best == nil || d < bestDist {
				best = tile
				bestDist = d
			}
		}

		if best == nil {
			// Crowded map: fall back to the first startable tile.
			for t := range m.Tiles {
				tile := &m.Tiles[t]
				if tile.Terrain.CanStartOn() && !occupied(tile.Coord(), chosen) {
					best = tile
					break
				}
			}
		}
		if best == nil {
			return nil, Errorf(ErrInternal, "map has no valid starting positions")
		}
		chosen = append(chosen, best.Coord())
	}
	return chosen, nil
}

func tooClose(pos board.Hex, chosen []board.Hex, minDist int) bool {
	for _, c := range chosen {
		if pos.Distance(c) < minDist {
			return true
		}
	}
	return false
}

func occupied(pos board.Hex, chosen []board.Hex) bool {
	for _, c := range chosen {
		if pos.Equals(c) {
			return true
		}
	}
	return false
}
