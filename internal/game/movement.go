package game

import (
	"github.com/dpalmie/palmietopia/internal/game/board"
	"github.com/dpalmie/palmietopia/internal/models"
)

// MoveOutcome reports a completed unit move, including any capture it
// triggered.
type MoveOutcome struct {
	UnitID            string
	ToQ               int
	ToR               int
	MovementRemaining int
	Capture           CaptureOutcome
}

// CanMove validates a single-step move and returns its terrain cost.
// Movement only enters empty tiles; capturing a defended city requires
// combat.
func CanMove(s *models.GameSession, unitID string, toQ, toR int) (int, error) {
	unit := s.UnitByID(unitID)
	if unit == nil {
		return 0, Errorf(ErrNotFound, "unit not found: %s", unitID)
	}

	tile := s.Map.TileAt(toQ, toR)
	if tile == nil {
		return 0, Errorf(ErrIllegalMove, "destination (%d,%d) is off the map", toQ, toR)
	}

	from := board.NewHex(unit.Q, unit.R)
	if from.Distance(board.NewHex(toQ, toR)) != 1 {
		return 0, Errorf(ErrIllegalMove, "destination is not adjacent")
	}

	cost, ok := tile.Terrain.MovementCost()
	if !ok {
		return 0, Errorf(ErrIllegalMove, "cannot enter %s", tile.Terrain)
	}
	if unit.MovementRemaining < cost {
		return 0, Errorf(ErrIllegalMove, "not enough movement: need %d, have %d", cost, unit.MovementRemaining)
	}

	if s.UnitAt(toQ, toR) != nil {
		return 0, Errorf(ErrIllegalMove, "destination tile is occupied")
	}

	return cost, nil
}

// MoveUnit applies a validated move and resolves any city capture on the
// destination tile.
func MoveUnit(s *models.GameSession, unitID string, toQ, toR int) (*MoveOutcome, error) {
	cost, err := CanMove(s, unitID, toQ, toR)
	if err != nil {
		return nil, err
	}

	unit := s.UnitByID(unitID)
	unit.Q = toQ
	unit.R = toR
	unit.MovementRemaining -= cost

	capture := TryCapture(s, toQ, toR, unit.OwnerID)

	return &MoveOutcome{
		UnitID:            unit.ID,
		ToQ:               toQ,
		ToR:               toR,
		MovementRemaining: unit.MovementRemaining,
		Capture:           capture,
	}, nil
}
