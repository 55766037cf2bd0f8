package game

import (
	"github.com/dpalmie/palmietopia/internal/models"
)

// CaptureOutcome reports city ownership changes caused by a unit entering
// a tile. Zero value means nothing was captured.
type CaptureOutcome struct {
	// CapturedCities lists every city that changed owner, the entered
	// tile first.
	CapturedCities []*models.City
	// EliminatedPlayerID is set when a capitol fell.
	EliminatedPlayerID string
	// WinnerID is set when the elimination left a sole survivor.
	WinnerID string
	GameOver bool
}

// Captured reports whether any city changed hands.
func (o *CaptureOutcome) Captured() bool {
	return len(o.CapturedCities) > 0
}

// TryCapture resolves a unit of newOwner arriving on (q, r). Entering an
// enemy capitol eliminates its owner: all their cities are reassigned,
// their units removed, and the session may end in victory. Entering a
// plain enemy city just reassigns it.
func TryCapture(s *models.GameSession, q, r int, newOwner string) CaptureOutcome {
	city := s.CityAt(q, r)
	if city == nil || city.OwnerID == newOwner {
		return CaptureOutcome{}
	}

	if !city.IsCapitol {
		city.OwnerID = newOwner
		return CaptureOutcome{CapturedCities: []*models.City{city}}
	}

	oldOwner := city.OwnerID
	s.EliminatedPlayers = append(s.EliminatedPlayers, oldOwner)

	outcome := CaptureOutcome{
		CapturedCities:     []*models.City{city},
		EliminatedPlayerID: oldOwner,
	}
	city.OwnerID = newOwner
	for _, c := range s.Cities {
		if c == city || c.OwnerID != oldOwner {
			continue
		}
		c.OwnerID = newOwner
		c.IsCapitol = false
		outcome.CapturedCities = append(outcome.CapturedCities, c)
	}

	remaining := s.Units[:0]
	for _, u := range s.Units {
		if u.OwnerID != oldOwner {
			remaining = append(remaining, u)
		}
	}
	s.Units = remaining

	if survivor, sole := soleSurvivor(s); sole {
		s.Status = models.StatusVictory
		s.WinnerID = survivor
		outcome.WinnerID = survivor
		outcome.GameOver = true
	}
	return outcome
}

func soleSurvivor(s *models.GameSession) (string, bool) {
	var survivor string
	count := 0
	for _, p := range s.Players {
		if !s.IsEliminated(p.ID) {
			survivor = p.ID
			count++
		}
	}
	return survivor, count == 1
}
