package protocol

import (
	"encoding/json"
	"log"

	"github.com/dpalmie/palmietopia/internal/models"
)

// Server event tags.
const (
	EvtLobbyCreated     = "LobbyCreated"
	EvtJoinedLobby      = "JoinedLobby"
	EvtLobbyUpdated     = "LobbyUpdated"
	EvtLobbyList        = "LobbyList"
	EvtGameStarted      = "GameStarted"
	EvtGameRejoined     = "GameRejoined"
	EvtPlayerLeft       = "PlayerLeft"
	EvtError            = "Error"
	EvtTurnChanged      = "TurnChanged"
	EvtTimeTick         = "TimeTick"
	EvtUnitMoved        = "UnitMoved"
	EvtCombatResult     = "CombatResult"
	EvtPlayerEliminated = "PlayerEliminated"
	EvtCitiesCaptured   = "CitiesCaptured"
	EvtGameOver         = "GameOver"
	EvtUnitFortified    = "UnitFortified"
	EvtUnitPurchased    = "UnitPurchased"
)

type LobbyCreatedEvent struct {
	Type     string `json:"type"`
	LobbyID  string `json:"lobby_id"`
	PlayerID string `json:"player_id"`
}

func NewLobbyCreated(lobbyID, playerID string) LobbyCreatedEvent {
	return LobbyCreatedEvent{Type: EvtLobbyCreated, LobbyID: lobbyID, PlayerID: playerID}
}

type JoinedLobbyEvent struct {
	Type     string        `json:"type"`
	Lobby    *models.Lobby `json:"lobby"`
	PlayerID string        `json:"player_id"`
}

func NewJoinedLobby(lobby *models.Lobby, playerID string) JoinedLobbyEvent {
	return JoinedLobbyEvent{Type: EvtJoinedLobby, Lobby: lobby, PlayerID: playerID}
}

type LobbyUpdatedEvent struct {
	Type  string        `json:"type"`
	Lobby *models.Lobby `json:"lobby"`
}

func NewLobbyUpdated(lobby *models.Lobby) LobbyUpdatedEvent {
	return LobbyUpdatedEvent{Type: EvtLobbyUpdated, Lobby: lobby}
}

type LobbyListEvent struct {
	Type    string         `json:"type"`
	Lobbies []models.Lobby `json:"lobbies"`
}

func NewLobbyList(lobbies []models.Lobby) LobbyListEvent {
	return LobbyListEvent{Type: EvtLobbyList, Lobbies: lobbies}
}

type GameStartedEvent struct {
	Type string              `json:"type"`
	Game *models.GameSession `json:"game"`
}

func NewGameStarted(game *models.GameSession) GameStartedEvent {
	return GameStartedEvent{Type: EvtGameStarted, Game: game}
}

type GameRejoinedEvent struct {
	Type string              `json:"type"`
	Game *models.GameSession `json:"game"`
}

func NewGameRejoined(game *models.GameSession) GameRejoinedEvent {
	return GameRejoinedEvent{Type: EvtGameRejoined, Game: game}
}

type PlayerLeftEvent struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
}

func NewPlayerLeft(playerID string) PlayerLeftEvent {
	return PlayerLeftEvent{Type: EvtPlayerLeft, PlayerID: playerID}
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: EvtError, Message: message}
}

// TurnChangedEvent is the cumulative authoritative state pushed on every
// turn transition.
type TurnChangedEvent struct {
	Type          string         `json:"type"`
	CurrentTurn   int            `json:"current_turn"`
	PlayerTimesMs []int64        `json:"player_times_ms"`
	PlayerGold    []int          `json:"player_gold"`
	Units         []*models.Unit `json:"units"`
	Cities        []*models.City `json:"cities"`
}

func NewTurnChanged(g *models.GameSession) TurnChangedEvent {
	return TurnChangedEvent{
		Type:          EvtTurnChanged,
		CurrentTurn:   g.CurrentTurn,
		PlayerTimesMs: g.PlayerTimesMs,
		PlayerGold:    g.PlayerGold,
		Units:         g.Units,
		Cities:        g.Cities,
	}
}

type TimeTickEvent struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index"`
	RemainingMs int64  `json:"remaining_ms"`
}

func NewTimeTick(playerIndex int, remainingMs int64) TimeTickEvent {
	return TimeTickEvent{Type: EvtTimeTick, PlayerIndex: playerIndex, RemainingMs: remainingMs}
}

type UnitMovedEvent struct {
	Type              string `json:"type"`
	UnitID            string `json:"unit_id"`
	ToQ               int    `json:"to_q"`
	ToR               int    `json:"to_r"`
	MovementRemaining int    `json:"movement_remaining"`
}

func NewUnitMoved(unitID string, toQ, toR, movementRemaining int) UnitMovedEvent {
	return UnitMovedEvent{
		Type:              EvtUnitMoved,
		UnitID:            unitID,
		ToQ:               toQ,
		ToR:               toR,
		MovementRemaining: movementRemaining,
	}
}

type CombatResultEvent struct {
	Type             string `json:"type"`
	AttackerID       string `json:"attacker_id"`
	DefenderID       string `json:"defender_id"`
	AttackerHP       int    `json:"attacker_hp"`
	DefenderHP       int    `json:"defender_hp"`
	DamageToAttacker int    `json:"damage_to_attacker"`
	DamageToDefender int    `json:"damage_to_defender"`
	AttackerDied     bool   `json:"attacker_died"`
	DefenderDied     bool   `json:"defender_died"`
	Advanced         bool   `json:"advanced"`
	AttackerQ        int    `json:"attacker_q"`
	AttackerR        int    `json:"attacker_r"`
}

type PlayerEliminatedEvent struct {
	Type        string `json:"type"`
	PlayerID    string `json:"player_id"`
	ConquererID string `json:"conquerer_id"`
}

func NewPlayerEliminated(playerID, conquererID string) PlayerEliminatedEvent {
	return PlayerEliminatedEvent{Type: EvtPlayerEliminated, PlayerID: playerID, ConquererID: conquererID}
}

type CitiesCapturedEvent struct {
	Type   string         `json:"type"`
	Cities []*models.City `json:"cities"`
}

func NewCitiesCaptured(cities []*models.City) CitiesCapturedEvent {
	return CitiesCapturedEvent{Type: EvtCitiesCaptured, Cities: cities}
}

type GameOverEvent struct {
	Type     string `json:"type"`
	WinnerID string `json:"winner_id"`
}

func NewGameOver(winnerID string) GameOverEvent {
	return GameOverEvent{Type: EvtGameOver, WinnerID: winnerID}
}

type UnitFortifiedEvent struct {
	Type   string `json:"type"`
	UnitID string `json:"unit_id"`
	NewHP  int    `json:"new_hp"`
}

func NewUnitFortified(unitID string, newHP int) UnitFortifiedEvent {
	return UnitFortifiedEvent{Type: EvtUnitFortified, UnitID: unitID, NewHP: newHP}
}

type UnitPurchasedEvent struct {
	Type       string       `json:"type"`
	Unit       *models.Unit `json:"unit"`
	CityID     string       `json:"city_id"`
	PlayerGold int          `json:"player_gold"`
}

func NewUnitPurchased(unit *models.Unit, cityID string, playerGold int) UnitPurchasedEvent {
	return UnitPurchasedEvent{Type: EvtUnitPurchased, Unit: unit, CityID: cityID, PlayerGold: playerGold}
}

// Encode marshals an event for the wire. Events are plain data and never
// fail to marshal; a failure is logged and yields nil.
func Encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("protocol: encode %T: %v", v, err)
		return nil
	}
	return data
}
