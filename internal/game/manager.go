package game

import (
	"log"
	"sync"
	"time"

	"github.com/dpalmie/palmietopia/internal/hub"
	"github.com/dpalmie/palmietopia/internal/models"
	"github.com/dpalmie/palmietopia/internal/protocol"
)

// ActiveSession pairs a running session with its broadcast publisher.
type ActiveSession struct {
	Session   *models.GameSession
	Publisher *hub.Publisher
}

// Manager owns all active sessions. Command application on one session is
// serial: every mutating operation and every timer tick acquires the
// manager lock, and the lock is never held across I/O.
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	hub      *hub.Hub
	sessions map[string]*ActiveSession

	// now returns wall-clock milliseconds; injectable for tests.
	now func() int64
}

// NewManager creates a session manager. Publishers of reaped sessions are
// dropped from the given hub.
func NewManager(cfg Config, h *hub.Hub) *Manager {
	if cfg.TimerTick <= 0 {
		cfg.TimerTick = time.Second
	}
	return &Manager{
		cfg:      cfg,
		hub:      h,
		sessions: make(map[string]*ActiveSession),
		now:      nowMs,
	}
}

// Config returns the manager's rule configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}

// Start registers a session, stamps the first turn, and spawns its timer
// task.
func (m *Manager) Start(session *models.GameSession, pub *hub.Publisher) {
	m.mu.Lock()
	session.TurnStartedAtMs = m.now()
	m.sessions[session.ID] = &ActiveSession{Session: session, Publisher: pub}
	m.mu.Unlock()

	go m.runTimer(session.ID)
}

// GetSession returns a deep-copy snapshot of the session, safe to use
// outside the lock.
func (m *Manager) GetSession(gameID string) (*models.GameSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	as, ok := m.sessions[gameID]
	if !ok {
		return nil, false
	}
	return as.Session.Clone(), true
}

// GetPublisher returns the broadcast publisher of an active session, for
// rejoining clients.
func (m *Manager) GetPublisher(gameID string) (*hub.Publisher, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	as, ok := m.sessions[gameID]
	if !ok {
		return nil, false
	}
	return as.Publisher, true
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EndTurn ends the current player's turn, settling the chess clock from
// wall-clock time used.
func (m *Manager) EndTurn(gameID, playerID string) (protocol.TurnChangedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	as, err := m.activeSession(gameID, playerID)
	if err != nil {
		return protocol.TurnChangedEvent{}, err
	}

	now := m.now()
	timeUsed := now - as.Session.TurnStartedAtMs
	if timeUsed < 0 {
		timeUsed = 0
	}
	EndCurrentTurn(as.Session, timeUsed, m.cfg.BaseIncome)
	as.Session.TurnStartedAtMs = now

	evt := protocol.NewTurnChanged(as.Session)
	as.Publisher.Publish(protocol.Encode(evt))
	return evt, nil
}

// MoveUnit moves a unit of the current player one tile, publishing the
// move and any resulting capture.
func (m *Manager) MoveUnit(gameID, playerID, unitID string, toQ, toR int) (protocol.UnitMovedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	as, err := m.activeSession(gameID, playerID)
	if err != nil {
		return protocol.UnitMovedEvent{}, err
	}
	if err := m.requireUnitOwner(as.Session, playerID, unitID); err != nil {
		return protocol.UnitMovedEvent{}, err
	}

	outcome, err := MoveUnit(as.Session, unitID, toQ, toR)
	if err != nil {
		return protocol.UnitMovedEvent{}, err
	}

	evt := protocol.NewUnitMoved(outcome.UnitID, outcome.ToQ, outcome.ToR, outcome.MovementRemaining)
	as.Publisher.Publish(protocol.Encode(evt))
	m.publishCapture(as, playerID, outcome.Capture)
	return evt, nil
}

// AttackUnit resolves combat between the current player's unit and an
// adjacent enemy.
func (m *Manager) AttackUnit(gameID, playerID, attackerID, defenderID string) (protocol.CombatResultEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	as, err := m.activeSession(gameID, playerID)
	if err != nil {
		return protocol.CombatResultEvent{}, err
	}
	if err := m.requireUnitOwner(as.Session, playerID, attackerID); err != nil {
		return protocol.CombatResultEvent{}, err
	}

	outcome, err := ResolveCombat(as.Session, attackerID, defenderID)
	if err != nil {
		return protocol.CombatResultEvent{}, err
	}

	evt := protocol.CombatResultEvent{
		Type:             protocol.EvtCombatResult,
		AttackerID:       outcome.AttackerID,
		DefenderID:       outcome.DefenderID,
		AttackerHP:       outcome.AttackerHP,
		DefenderHP:       outcome.DefenderHP,
		DamageToAttacker: outcome.DamageToAttacker,
		DamageToDefender: outcome.DamageToDefender,
		AttackerDied:     outcome.AttackerDied,
		DefenderDied:     outcome.DefenderDied,
		Advanced:         outcome.Advanced,
		AttackerQ:        outcome.AttackerQ,
		AttackerR:        outcome.AttackerR,
	}
	as.Publisher.Publish(protocol.Encode(evt))
	m.publishCapture(as, playerID, outcome.Capture)
	return evt, nil
}

// FortifyUnit spends a unit's turn on a partial heal.
func (m *Manager) FortifyUnit(gameID, playerID, unitID string) (protocol.UnitFortifiedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	as, err := m.activeSession(gameID, playerID)
	if err != nil {
		return protocol.UnitFortifiedEvent{}, err
	}
	if err := m.requireUnitOwner(as.Session, playerID, unitID); err != nil {
		return protocol.UnitFortifiedEvent{}, err
	}

	newHP, err := FortifyUnit(as.Session, unitID)
	if err != nil {
		return protocol.UnitFortifiedEvent{}, err
	}

	evt := protocol.NewUnitFortified(unitID, newHP)
	as.Publisher.Publish(protocol.Encode(evt))
	return evt, nil
}

// BuyUnit purchases a unit from one of the current player's cities.
func (m *Manager) BuyUnit(gameID, playerID, cityID string, unitType models.UnitType) (protocol.UnitPurchasedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	as, err := m.activeSession(gameID, playerID)
	if err != nil {
		return protocol.UnitPurchasedEvent{}, err
	}

	unit, err := BuyUnit(as.Session, playerID, cityID, unitType)
	if err != nil {
		return protocol.UnitPurchasedEvent{}, err
	}

	seat := as.Session.SeatOf(playerID)
	evt := protocol.NewUnitPurchased(unit, cityID, as.Session.PlayerGold[seat])
	as.Publisher.Publish(protocol.Encode(evt))
	return evt, nil
}

// activeSession looks up the session and checks that the caller holds the
// current seat. Callers must hold m.mu.
func (m *Manager) activeSession(gameID, playerID string) (*ActiveSession, error) {
	as, ok := m.sessions[gameID]
	if !ok {
		return nil, Errorf(ErrNotFound, "game not found: %s", gameID)
	}
	if as.Session.Status != models.StatusInProgress {
		return nil, Errorf(ErrIllegalMove, "game is over")
	}
	current := as.Session.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return nil, Errorf(ErrNotYourTurn, "not your turn")
	}
	return as, nil
}

func (m *Manager) requireUnitOwner(s *models.GameSession, playerID, unitID string) error {
	unit := s.UnitByID(unitID)
	if unit == nil {
		return Errorf(ErrNotFound, "unit not found: %s", unitID)
	}
	if unit.OwnerID != playerID {
		return Errorf(ErrNotYourUnit, "unit belongs to another player")
	}
	return nil
}

// publishCapture fans out the consequences of a capture outcome. Callers
// must hold m.mu; the publisher never blocks, so broadcasting under the
// lock is safe.
func (m *Manager) publishCapture(as *ActiveSession, conquererID string, capture CaptureOutcome) {
	if !capture.Captured() {
		return
	}
	if capture.EliminatedPlayerID != "" {
		as.Publisher.Publish(protocol.Encode(protocol.NewPlayerEliminated(capture.EliminatedPlayerID, conquererID)))
	}
	as.Publisher.Publish(protocol.Encode(protocol.NewCitiesCaptured(capture.CapturedCities)))
	if capture.GameOver {
		log.Printf("game %s over: winner %s", as.Session.ID, capture.WinnerID)
		as.Publisher.Publish(protocol.Encode(protocol.NewGameOver(capture.WinnerID)))
	}
}
