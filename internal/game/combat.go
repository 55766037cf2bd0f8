package game

import (
	"github.com/dpalmie/palmietopia/internal/game/board"
	"github.com/dpalmie/palmietopia/internal/models"
)

// CombatOutcome reports a resolved attack: damage dealt both ways, deaths,
// the attacker's position if it advanced, and any capture the advance
// triggered.
type CombatOutcome struct {
	AttackerID       string
	DefenderID       string
	AttackerHP       int
	DefenderHP       int
	DamageToAttacker int
	DamageToDefender int
	AttackerDied     bool
	DefenderDied     bool
	Advanced         bool
	AttackerQ        int
	AttackerR        int
	Capture          CaptureOutcome
}

// ResolveCombat executes one attack between adjacent units. The attacker
// spends its whole turn; the defender counterattacks at half strength. A
// defender garrisoned on its owner's city defends at 1.5x. If the
// defender dies and the attacker survives, the attacker advances onto the
// defender's tile and may capture a city there.
func ResolveCombat(s *models.GameSession, attackerID, defenderID string) (*CombatOutcome, error) {
	attacker := s.UnitByID(attackerID)
	if attacker == nil {
		return nil, Errorf(ErrNotFound, "attacker not found: %s", attackerID)
	}
	defender := s.UnitByID(defenderID)
	if defender == nil {
		return nil, Errorf(ErrNotFound, "defender not found: %s", defenderID)
	}
	if attacker.OwnerID == defender.OwnerID {
		return nil, Errorf(ErrIllegalMove, "cannot attack a friendly unit")
	}
	if board.NewHex(attacker.Q, attacker.R).Distance(board.NewHex(defender.Q, defender.R)) != 1 {
		return nil, Errorf(ErrIllegalMove, "defender is not adjacent")
	}
	if attacker.MovementRemaining <= 0 {
		return nil, Errorf(ErrIllegalMove, "unit has no movement left")
	}

	atkStats := attacker.Type.Stats()
	defStats := defender.Type.Stats()

	effectiveDefense := defStats.Defense
	if city := s.CityAt(defender.Q, defender.R); city != nil && city.OwnerID == defender.OwnerID {
		effectiveDefense += defStats.Defense / 2
	}

	damageToDefender := atkStats.Attack * 30 / (30 + effectiveDefense)
	damageToAttacker := (defStats.Attack * 30 / (30 + atkStats.Defense)) / 2

	defender.HP = saturatingSub(defender.HP, damageToDefender)
	attacker.HP = saturatingSub(attacker.HP, damageToAttacker)
	attacker.MovementRemaining = 0

	outcome := &CombatOutcome{
		AttackerID:       attacker.ID,
		DefenderID:       defender.ID,
		AttackerHP:       attacker.HP,
		DefenderHP:       defender.HP,
		DamageToAttacker: damageToAttacker,
		DamageToDefender: damageToDefender,
		AttackerDied:     attacker.HP == 0,
		DefenderDied:     defender.HP == 0,
		AttackerQ:        attacker.Q,
		AttackerR:        attacker.R,
	}

	defQ, defR := defender.Q, defender.R
	if outcome.DefenderDied {
		s.RemoveUnit(defender.ID)
	}
	if outcome.AttackerDied {
		s.RemoveUnit(attacker.ID)
	}

	if outcome.DefenderDied && !outcome.AttackerDied {
		attacker.Q = defQ
		attacker.R = defR
		outcome.Advanced = true
		outcome.AttackerQ = defQ
		outcome.AttackerR = defR
		outcome.Capture = TryCapture(s, defQ, defR, attacker.OwnerID)
	}

	return outcome, nil
}

func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}
