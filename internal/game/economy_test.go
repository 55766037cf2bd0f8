package game

import (
	"testing"

	"github.com/dpalmie/palmietopia/internal/models"
)

func TestFortifyHealsAndDrains(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	unit := s.UnitByID("unit-0")
	unit.HP = 20

	newHP, err := FortifyUnit(s, "unit-0")
	if err != nil {
		t.Fatalf("FortifyUnit failed: %v", err)
	}
	if newHP != 32 { // 20 + 50/4
		t.Errorf("Expected 32 hp, got %d", newHP)
	}
	if unit.MovementRemaining != 0 {
		t.Error("Fortify should drain movement")
	}
}

func TestFortifyClampsAtMaxHP(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	unit := s.UnitByID("unit-0")
	unit.HP = 45

	newHP, err := FortifyUnit(s, "unit-0")
	if err != nil {
		t.Fatalf("FortifyUnit failed: %v", err)
	}
	if newHP != unit.MaxHP {
		t.Errorf("Expected hp clamped to %d, got %d", unit.MaxHP, newHP)
	}
}

func TestFortifyRequiresFullMovement(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")
	s.UnitByID("unit-0").MovementRemaining = 1

	if _, err := FortifyUnit(s, "unit-0"); err == nil {
		t.Fatal("Expected error fortifying a unit that has acted")
	} else if KindOf(err) != ErrIllegalMove {
		t.Errorf("Expected IllegalMove, got %v", KindOf(err))
	}
}

func TestBuyUnitProductionCycle(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSession(cfg, "p0", "p1")
	s.RemoveUnit("unit-0") // free the capitol tile

	unit, err := BuyUnit(s, "p0", "city-0", models.UnitConscript)
	if err != nil {
		t.Fatalf("BuyUnit failed: %v", err)
	}
	if s.PlayerGold[0] != 50-25 {
		t.Errorf("Expected 25 gold left, got %d", s.PlayerGold[0])
	}
	if unit.Q != -2 || unit.R != 0 {
		t.Errorf("Unit placed at (%d,%d), expected the city tile", unit.Q, unit.R)
	}
	if unit.MovementRemaining != 0 {
		t.Error("A fresh purchase cannot act this turn")
	}
	if unit.HP != unit.MaxHP {
		t.Errorf("Expected full hp, got %d/%d", unit.HP, unit.MaxHP)
	}
	if !s.CityByID("city-0").ProducedThisTurn {
		t.Error("City production flag not set")
	}

	// A second purchase the same turn is locked out.
	if _, err := BuyUnit(s, "p0", "city-0", models.UnitConscript); err == nil {
		t.Fatal("Expected error on second purchase this turn")
	} else if KindOf(err) != ErrIllegalMove {
		t.Errorf("Expected IllegalMove, got %v", KindOf(err))
	}

	// After the turn comes back around, the flag resets but the tile is
	// still occupied by the purchase itself.
	EndCurrentTurn(s, 100, cfg.BaseIncome)
	EndCurrentTurn(s, 100, cfg.BaseIncome)
	if s.CityByID("city-0").ProducedThisTurn {
		t.Error("Production flag should reset on the owner's next turn")
	}
	if _, err := BuyUnit(s, "p0", "city-0", models.UnitConscript); err == nil {
		t.Fatal("Expected error: city tile occupied by last purchase")
	}

	// Marching the garrison off the tile clears the way for another
	// purchase.
	if _, err := MoveUnit(s, unit.ID, -1, 0); err != nil {
		t.Fatalf("MoveUnit failed: %v", err)
	}
	if _, err := BuyUnit(s, "p0", "city-0", models.UnitConscript); err != nil {
		t.Fatalf("Repurchase after vacating the tile failed: %v", err)
	}
	if s.PlayerGold[0] != 50-25+20-25 {
		t.Errorf("Gold after two purchases and two turn ends: %d", s.PlayerGold[0])
	}
}

func TestBuyUnitRejections(t *testing.T) {
	s := newTestSession(DefaultConfig(), "p0", "p1")

	// Occupied tile: the starting conscript sits on the capitol.
	if _, err := BuyUnit(s, "p0", "city-0", models.UnitConscript); err == nil {
		t.Fatal("Expected error buying onto an occupied tile")
	}

	s.RemoveUnit("unit-0")

	if _, err := BuyUnit(s, "p0", "nope", models.UnitConscript); KindOf(err) != ErrNotFound {
		t.Errorf("Unknown city: expected NotFound, got %v", err)
	}
	if _, err := BuyUnit(s, "p0", "city-1", models.UnitConscript); KindOf(err) != ErrNotYourCity {
		t.Errorf("Enemy city: expected NotYourCity, got %v", err)
	}

	s.PlayerGold[0] = 10
	if _, err := BuyUnit(s, "p0", "city-0", models.UnitConscript); KindOf(err) != ErrIllegalMove {
		t.Errorf("Insufficient gold: expected IllegalMove, got %v", err)
	}
	if s.CityByID("city-0").ProducedThisTurn {
		t.Error("Rejected purchase set the production flag")
	}
}
