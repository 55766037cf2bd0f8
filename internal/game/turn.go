package game

import (
	"github.com/dpalmie/palmietopia/internal/models"
)

// EndCurrentTurn settles the outgoing seat's chess clock and income, then
// advances to the next non-eliminated seat and refreshes its units and
// cities. timeUsedMs in excess of the bank drops the bank to zero before
// the increment is added.
func EndCurrentTurn(s *models.GameSession, timeUsedMs int64, baseIncome int) {
	seat := s.CurrentTurn

	bank := s.PlayerTimesMs[seat] - timeUsedMs
	if bank < 0 {
		bank = 0
	}
	s.PlayerTimesMs[seat] = bank + s.IncrementMs
	s.PlayerGold[seat] += baseIncome

	// Step past eliminated seats; a full cycle lands back on the
	// outgoing seat.
	n := len(s.Players)
	next := seat
	for i := 0; i < n; i++ {
		next = (next + 1) % n
		if !s.IsEliminated(s.Players[next].ID) {
			break
		}
	}
	s.CurrentTurn = next

	current := s.Players[next].ID
	for _, u := range s.Units {
		if u.OwnerID == current {
			u.MovementRemaining = u.Type.Stats().BaseMovement
		}
	}
	for _, c := range s.Cities {
		if c.OwnerID == current {
			c.ProducedThisTurn = false
		}
	}
}
