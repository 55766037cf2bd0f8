package game

import (
	"reflect"
	"testing"

	"github.com/dpalmie/palmietopia/internal/game/board"
	"github.com/dpalmie/palmietopia/internal/models"
)

func TestMoveUnitOntoGrassland(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	unit := s.UnitByID("unit-0") // at (-2,0), movement 2

	outcome, err := MoveUnit(s, "unit-0", -1, 0)
	if err != nil {
		t.Fatalf("MoveUnit failed: %v", err)
	}
	if unit.Q != -1 || unit.R != 0 {
		t.Errorf("Unit at (%d,%d), expected (-1,0)", unit.Q, unit.R)
	}
	if outcome.MovementRemaining != 1 {
		t.Errorf("Expected movement 1, got %d", outcome.MovementRemaining)
	}

	// Re-issuing the same move now targets the unit's own tile
	// (distance 0) and must fail.
	if _, err := MoveUnit(s, "unit-0", -1, 0); err == nil {
		t.Fatal("Expected error moving onto own tile")
	} else if KindOf(err) != ErrIllegalMove {
		t.Errorf("Expected IllegalMove, got %v", KindOf(err))
	}
}

func TestCanMoveImpliesMoveSucceeds(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")

	cost, err := CanMove(s, "unit-0", -2, 1)
	if err != nil {
		t.Fatalf("CanMove failed: %v", err)
	}
	outcome, err := MoveUnit(s, "unit-0", -2, 1)
	if err != nil {
		t.Fatalf("CanMove accepted but MoveUnit rejected: %v", err)
	}
	unit := s.UnitByID("unit-0")
	if unit.Q != -2 || unit.R != 1 {
		t.Errorf("Unit at (%d,%d), expected (-2,1)", unit.Q, unit.R)
	}
	if outcome.MovementRemaining != 2-cost {
		t.Errorf("Expected movement %d, got %d", 2-cost, outcome.MovementRemaining)
	}
}

func TestMountainCostsTwo(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	setTerrain(s.Map, -1, 0, board.TerrainMountain)
	unit := s.UnitByID("unit-0")

	// With one movement point a mountain is out of reach.
	unit.MovementRemaining = 1
	if _, err := MoveUnit(s, "unit-0", -1, 0); err == nil {
		t.Fatal("Expected error entering mountain with 1 movement")
	} else if KindOf(err) != ErrIllegalMove {
		t.Errorf("Expected IllegalMove, got %v", KindOf(err))
	}

	// With two it works and drains the unit.
	unit.MovementRemaining = 2
	outcome, err := MoveUnit(s, "unit-0", -1, 0)
	if err != nil {
		t.Fatalf("MoveUnit onto mountain failed: %v", err)
	}
	if outcome.MovementRemaining != 0 {
		t.Errorf("Expected movement 0 after mountain, got %d", outcome.MovementRemaining)
	}
}

func TestMoveRejections(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	setTerrain(s.Map, -1, 0, board.TerrainWater)
	s.Units = append(s.Units, &models.Unit{
		ID: "blocker", OwnerID: "p1", Type: models.UnitConscript,
		Q: -2, R: 1, MovementRemaining: 0, HP: 50, MaxHP: 50,
	})

	tests := []struct {
		name string
		unit string
		toQ  int
		toR  int
		kind ErrorKind
	}{
		{"unknown unit", "nope", -1, 0, ErrNotFound},
		{"off the map", "unit-0", -5, 0, ErrIllegalMove},
		{"not adjacent", "unit-0", 0, 0, ErrIllegalMove},
		{"water", "unit-0", -1, 0, ErrIllegalMove},
		{"occupied", "unit-0", -2, 1, ErrIllegalMove},
	}

	for _, tt := range tests {
		snapshot := s.Clone()
		_, err := MoveUnit(s, tt.unit, tt.toQ, tt.toR)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if KindOf(err) != tt.kind {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.kind, KindOf(err))
		}
		if !reflect.DeepEqual(snapshot, s.Clone()) {
			t.Errorf("%s: rejected command mutated the session", tt.name)
		}
	}
}

func TestMoveOntoUndefendedEnemyCityCaptures(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	// An undefended plain city of p1 next to p0's unit.
	s.Cities = append(s.Cities, &models.City{
		ID: "outpost", OwnerID: "p1", Q: -1, R: 0, Name: "Outpost",
	})

	outcome, err := MoveUnit(s, "unit-0", -1, 0)
	if err != nil {
		t.Fatalf("MoveUnit failed: %v", err)
	}
	if !outcome.Capture.Captured() {
		t.Fatal("Expected the move to capture the city")
	}
	if got := s.CityByID("outpost").OwnerID; got != "p0" {
		t.Errorf("City owner is %s, expected p0", got)
	}
	if outcome.Capture.EliminatedPlayerID != "" {
		t.Errorf("Plain city capture should not eliminate, got %s", outcome.Capture.EliminatedPlayerID)
	}
}

func TestMoveOntoDefendedCityIsBlocked(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	s.Cities = append(s.Cities, &models.City{
		ID: "outpost", OwnerID: "p1", Q: -1, R: 0, Name: "Outpost",
	})
	s.Units = append(s.Units, &models.Unit{
		ID: "garrison", OwnerID: "p1", Type: models.UnitConscript,
		Q: -1, R: 0, MovementRemaining: 0, HP: 50, MaxHP: 50,
	})

	if _, err := MoveUnit(s, "unit-0", -1, 0); err == nil {
		t.Fatal("Expected error moving onto a defended city")
	}
	if got := s.CityByID("outpost").OwnerID; got != "p1" {
		t.Errorf("City owner changed to %s on a rejected move", got)
	}
}
