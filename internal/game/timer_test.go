package game

import (
	"testing"

	"github.com/dpalmie/palmietopia/internal/models"
	"github.com/dpalmie/palmietopia/internal/protocol"
)

func TestTimerTickPublishesRemainingTime(t *testing.T) {
	cfg := DefaultConfig()
	m, clock := newTestManager(cfg)
	s, sub := startTestGame(t, m, "p0", "p1")

	*clock = 1500
	if !m.tickSession(s.ID) {
		t.Fatal("Tick should keep the timer alive")
	}

	got := recvEvent(t, sub)
	if got["type"] != protocol.EvtTimeTick {
		t.Fatalf("Expected TimeTick, got %v", got["type"])
	}
	if got["player_index"].(float64) != 0 {
		t.Errorf("Expected tick for seat 0, got %v", got["player_index"])
	}
	if got["remaining_ms"].(float64) != float64(cfg.BaseTimeMs-1500) {
		t.Errorf("Expected remaining %d, got %v", cfg.BaseTimeMs-1500, got["remaining_ms"])
	}
}

func TestTimerFlagFallAutoEndsTurn(t *testing.T) {
	// Two players on a 3-second clock; nobody acts.
	cfg := DefaultConfig()
	cfg.BaseTimeMs = 3000
	m, clock := newTestManager(cfg)
	s, sub := startTestGame(t, m, "p0", "p1")

	*clock = 3000
	if !m.tickSession(s.ID) {
		t.Fatal("Tick should keep the timer alive")
	}

	tick := recvEvent(t, sub)
	if tick["type"] != protocol.EvtTimeTick {
		t.Fatalf("Expected TimeTick, got %v", tick["type"])
	}
	if tick["remaining_ms"].(float64) != 0 {
		t.Errorf("Expected zero remaining, got %v", tick["remaining_ms"])
	}

	turnChanged := recvEvent(t, sub)
	if turnChanged["type"] != protocol.EvtTurnChanged {
		t.Fatalf("Expected TurnChanged after flag fall, got %v", turnChanged["type"])
	}

	live, _ := m.GetSession(s.ID)
	if live.PlayerTimesMs[0] != cfg.IncrementMs {
		t.Errorf("Expected seat 0 bank %d (full bank consumed, increment added), got %d",
			cfg.IncrementMs, live.PlayerTimesMs[0])
	}
	if live.CurrentTurn != 1 {
		t.Errorf("Expected current turn 1, got %d", live.CurrentTurn)
	}
	if live.TurnStartedAtMs != 3000 {
		t.Errorf("Expected turn restamped at 3000, got %d", live.TurnStartedAtMs)
	}
}

func TestTimerExitsWhenSessionMissing(t *testing.T) {
	m, _ := newTestManager(DefaultConfig())

	if m.tickSession("nope") {
		t.Fatal("Tick for a missing session should stop the timer")
	}
}

func TestTimerReapsDecidedSession(t *testing.T) {
	m, _ := newTestManager(DefaultConfig())
	s, sub := startTestGame(t, m, "p0", "p1")

	m.mu.Lock()
	m.sessions[s.ID].Session.Status = models.StatusVictory
	m.sessions[s.ID].Session.WinnerID = "p0"
	m.mu.Unlock()

	if m.tickSession(s.ID) {
		t.Fatal("Tick on a decided session should stop the timer")
	}

	// No tick was published; the reap closed the subscription and
	// removed both the session entry and its publisher.
	select {
	case msg, ok := <-sub.C():
		if ok {
			t.Fatalf("Unexpected event after victory: %s", msg)
		}
	default:
	}
	if _, ok := m.GetSession(s.ID); ok {
		t.Error("Decided session was not removed from the active map")
	}
	if _, ok := m.hub.Get(s.ID); ok {
		t.Error("Decided session's publisher was not removed from the hub")
	}
}
