package board

import (
	"crypto/rand"
)

// Tile is a single hex tile with axial coordinates and terrain.
type Tile struct {
	Q       int     `json:"q"`
	R       int     `json:"r"`
	Terrain Terrain `json:"terrain"`
}

// Coord returns the tile's position as a Hex.
func (t *Tile) Coord() Hex {
	return Hex{Q: t.Q, R: t.R}
}

// GameMap is a hexagonal region of tiles with the given radius.
type GameMap struct {
	Tiles  []Tile `json:"tiles"`
	Radius int    `json:"radius"`
}

// Generate builds a hexagonal map of the given radius with each tile's
// terrain drawn independently from the terrain set. Terrain is drawn from
// a cryptographic entropy stream; there is no determinism contract across
// runs.
func Generate(radius int) *GameMap {
	size := 1 + 3*radius*(radius+1)
	tiles := make([]Tile, 0, size)

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	i := 0
	for q := -radius; q <= radius; q++ {
		r1 := maxInt(-radius, -q-radius)
		r2 := minInt(radius, -q+radius)
		for r := r1; r <= r2; r++ {
			tiles = append(tiles, Tile{
				Q:       q,
				R:       r,
				Terrain: Terrain(buf[i] % terrainCount),
			})
			i++
		}
	}

	return &GameMap{Tiles: tiles, Radius: radius}
}

// TileAt returns the tile at (q, r), or nil if the coordinate is outside
// the map.
func (m *GameMap) TileAt(q, r int) *Tile {
	for i := range m.Tiles {
		if m.Tiles[i].Q == q && m.Tiles[i].R == r {
			return &m.Tiles[i]
		}
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
