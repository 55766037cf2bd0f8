package board

import (
	"encoding/json"
	"fmt"
)

// Terrain represents the terrain type of a single map tile.
type Terrain int

const (
	TerrainGrassland Terrain = iota
	TerrainForest
	TerrainMountain
	TerrainWater
	TerrainDesert

	terrainCount = 5
)

func (t Terrain) String() string {
	switch t {
	case TerrainGrassland:
		return "Grassland"
	case TerrainForest:
		return "Forest"
	case TerrainMountain:
		return "Mountain"
	case TerrainWater:
		return "Water"
	case TerrainDesert:
		return "Desert"
	default:
		return "Unknown"
	}
}

// MovementCost returns the cost of entering a tile of this terrain.
// Water is impassable and reports ok=false.
func (t Terrain) MovementCost() (cost int, ok bool) {
	switch t {
	case TerrainGrassland, TerrainForest, TerrainDesert:
		return 1, true
	case TerrainMountain:
		return 2, true
	default:
		return 0, false
	}
}

// Passable reports whether a unit can ever enter this terrain.
func (t Terrain) Passable() bool {
	_, ok := t.MovementCost()
	return ok
}

// CanStartOn reports whether this terrain is a valid starting position.
func (t Terrain) CanStartOn() bool {
	return t != TerrainWater && t != TerrainMountain
}

// MarshalJSON encodes the terrain by name, matching the wire format.
func (t Terrain) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a terrain name.
func (t *Terrain) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Grassland":
		*t = TerrainGrassland
	case "Forest":
		*t = TerrainForest
	case "Mountain":
		*t = TerrainMountain
	case "Water":
		*t = TerrainWater
	case "Desert":
		*t = TerrainDesert
	default:
		return fmt.Errorf("unknown terrain: %q", s)
	}
	return nil
}
