package models

import (
	"encoding/json"
	"fmt"
)

// UnitType enumerates the unit roster. The stats table admits additional
// types without touching the rules engine.
type UnitType int

const (
	UnitConscript UnitType = iota
)

// UnitStats holds the static combat and economy numbers for a unit type.
type UnitStats struct {
	BaseMovement int
	MaxHP        int
	Attack       int
	Defense      int
	Cost         int
}

var unitStats = map[UnitType]UnitStats{
	UnitConscript: {
		BaseMovement: 2,
		MaxHP:        50,
		Attack:       25,
		Defense:      15,
		Cost:         25,
	},
}

// Stats returns the stats table entry for this unit type.
func (t UnitType) Stats() UnitStats {
	return unitStats[t]
}

func (t UnitType) String() string {
	switch t {
	case UnitConscript:
		return "Conscript"
	default:
		return "Unknown"
	}
}

// UnitTypeFromString parses a unit type name.
func UnitTypeFromString(s string) (UnitType, error) {
	switch s {
	case "Conscript":
		return UnitConscript, nil
	}
	return UnitConscript, fmt.Errorf("unknown unit type: %q", s)
}

// MarshalJSON encodes the unit type by name.
func (t UnitType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a unit type name.
func (t *UnitType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := UnitTypeFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Unit is a single piece on the map. At most one unit occupies a tile.
type Unit struct {
	ID                string   `json:"id"`
	OwnerID           string   `json:"owner_id"`
	Type              UnitType `json:"type"`
	Q                 int      `json:"q"`
	R                 int      `json:"r"`
	MovementRemaining int      `json:"movement_remaining"`
	HP                int      `json:"hp"`
	MaxHP             int      `json:"max_hp"`
}
