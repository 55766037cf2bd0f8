package game

import (
	"github.com/google/uuid"

	"github.com/dpalmie/palmietopia/internal/models"
)

// FortifyUnit trades the remainder of a unit's turn for a quarter-max-hp
// heal. Only a unit that has not acted this turn may fortify.
func FortifyUnit(s *models.GameSession, unitID string) (int, error) {
	unit := s.UnitByID(unitID)
	if unit == nil {
		return 0, Errorf(ErrNotFound, "unit not found: %s", unitID)
	}
	if unit.MovementRemaining != unit.Type.Stats().BaseMovement {
		return 0, Errorf(ErrIllegalMove, "unit has already acted this turn")
	}

	unit.HP += unit.MaxHP / 4
	if unit.HP > unit.MaxHP {
		unit.HP = unit.MaxHP
	}
	unit.MovementRemaining = 0
	return unit.HP, nil
}

// BuyUnit purchases a unit of the given type from a city. The city must
// belong to the buyer, must not have produced this turn, and its tile
// must be empty. The new unit cannot act until the buyer's next turn.
func BuyUnit(s *models.GameSession, playerID, cityID string, unitType models.UnitType) (*models.Unit, error) {
	city := s.CityByID(cityID)
	if city == nil {
		return nil, Errorf(ErrNotFound, "city not found: %s", cityID)
	}
	if city.OwnerID != playerID {
		return nil, Errorf(ErrNotYourCity, "city belongs to another player")
	}
	if city.ProducedThisTurn {
		return nil, Errorf(ErrIllegalMove, "city has already produced this turn")
	}
	if s.UnitAt(city.Q, city.R) != nil {
		return nil, Errorf(ErrIllegalMove, "city tile is occupied")
	}

	seat := s.SeatOf(playerID)
	if seat < 0 {
		return nil, Errorf(ErrNotFound, "player not found: %s", playerID)
	}
	stats := unitType.Stats()
	if s.PlayerGold[seat] < stats.Cost {
		return nil, Errorf(ErrIllegalMove, "not enough gold: need %d, have %d", stats.Cost, s.PlayerGold[seat])
	}

	s.PlayerGold[seat] -= stats.Cost
	city.ProducedThisTurn = true

	unit := &models.Unit{
		ID:                uuid.NewString(),
		OwnerID:           playerID,
		Type:              unitType,
		Q:                 city.Q,
		R:                 city.R,
		MovementRemaining: 0,
		HP:                stats.MaxHP,
		MaxHP:             stats.MaxHP,
	}
	s.Units = append(s.Units, unit)
	return unit, nil
}
