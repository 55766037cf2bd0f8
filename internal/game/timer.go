package game

import (
	"log"
	"time"

	"github.com/dpalmie/palmietopia/internal/models"
	"github.com/dpalmie/palmietopia/internal/protocol"
)

// runTimer is the per-session timer task: one tick per TimerTick (one
// second by default), publishing
// the current seat's remaining time and auto-ending the turn on
// flag-fall. It exits, reaping the session entry, once the session is
// gone or decided.
func (m *Manager) runTimer(gameID string) {
	ticker := time.NewTicker(m.cfg.TimerTick)
	defer ticker.Stop()
	for range ticker.C {
		if !m.tickSession(gameID) {
			return
		}
	}
}

// tickSession performs one timer tick under the session lock. It returns
// false when the timer task should exit.
func (m *Manager) tickSession(gameID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	as, ok := m.sessions[gameID]
	if !ok {
		return false
	}
	if as.Session.Status != models.StatusInProgress {
		delete(m.sessions, gameID)
		m.hub.Remove(as.Publisher.ID())
		return false
	}

	now := m.now()
	elapsed := now - as.Session.TurnStartedAtMs
	if elapsed < 0 {
		elapsed = 0
	}
	bank := as.Session.CurrentPlayerTimeMs()
	remaining := bank - elapsed
	if remaining < 0 {
		remaining = 0
	}

	as.Publisher.Publish(protocol.Encode(protocol.NewTimeTick(as.Session.CurrentTurn, remaining)))

	if remaining == 0 {
		log.Printf("game %s: seat %d flag fell, auto-ending turn", gameID, as.Session.CurrentTurn)
		EndCurrentTurn(as.Session, bank, m.cfg.BaseIncome)
		as.Session.TurnStartedAtMs = now
		as.Publisher.Publish(protocol.Encode(protocol.NewTurnChanged(as.Session)))
	}
	return true
}
