package game

import (
	"fmt"

	"github.com/dpalmie/palmietopia/internal/game/board"
	"github.com/dpalmie/palmietopia/internal/models"
)

// flatMap builds an all-grassland map so tests control terrain
// explicitly.
func flatMap(radius int) *board.GameMap {
	m := board.Generate(radius)
	for i := range m.Tiles {
		m.Tiles[i].Terrain = board.TerrainGrassland
	}
	return m
}

func setTerrain(m *board.GameMap, q, r int, terrain board.Terrain) {
	tile := m.TileAt(q, r)
	if tile == nil {
		panic(fmt.Sprintf("no tile at (%d,%d)", q, r))
	}
	tile.Terrain = terrain
}

var testStarts = []board.Hex{
	{Q: -2, R: 0},
	{Q: 2, R: 0},
	{Q: 0, R: -2},
	{Q: 0, R: 2},
	{Q: 2, R: -2},
}

// newTestSession builds a deterministic session on a flat radius-4 map:
// one capitol ("city-N") and one fresh Conscript ("unit-N") per seat at
// fixed, separated positions.
func newTestSession(cfg Config, playerIDs ...string) *models.GameSession {
	s := &models.GameSession{
		ID:                "game-1",
		Map:               flatMap(4),
		Status:            models.StatusInProgress,
		EliminatedPlayers: []string{},
		BaseTimeMs:        cfg.BaseTimeMs,
		IncrementMs:       cfg.IncrementMs,
	}

	stats := models.UnitConscript.Stats()
	for i, id := range playerIDs {
		pos := testStarts[i]
		s.Players = append(s.Players, models.Player{
			ID:    id,
			Name:  id,
			Color: models.ColorForSeat(i),
		})
		s.PlayerTimesMs = append(s.PlayerTimesMs, cfg.BaseTimeMs)
		s.PlayerGold = append(s.PlayerGold, cfg.StartingGold)
		s.Cities = append(s.Cities, &models.City{
			ID:        fmt.Sprintf("city-%d", i),
			OwnerID:   id,
			Q:         pos.Q,
			R:         pos.R,
			Name:      fmt.Sprintf("%s's Capitol", id),
			IsCapitol: true,
		})
		s.Units = append(s.Units, &models.Unit{
			ID:                fmt.Sprintf("unit-%d", i),
			OwnerID:           id,
			Type:              models.UnitConscript,
			Q:                 pos.Q,
			R:                 pos.R,
			MovementRemaining: stats.BaseMovement,
			HP:                stats.MaxHP,
			MaxHP:             stats.MaxHP,
		})
	}
	return s
}
