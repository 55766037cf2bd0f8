// Package protocol defines the JSON wire format between clients and the
// server. Every message is an object with a "type" discriminator and its
// fields at the top level.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client command tags.
const (
	CmdCreateLobby = "CreateLobby"
	CmdJoinLobby   = "JoinLobby"
	CmdLeaveLobby  = "LeaveLobby"
	CmdStartGame   = "StartGame"
	CmdListLobbies = "ListLobbies"
	CmdEndTurn     = "EndTurn"
	CmdRejoinGame  = "RejoinGame"
	CmdMoveUnit    = "MoveUnit"
	CmdAttackUnit  = "AttackUnit"
	CmdFortifyUnit = "FortifyUnit"
	CmdBuyUnit     = "BuyUnit"
)

// Envelope carries only the discriminator; the full message is decoded a
// second time into the per-command payload.
type Envelope struct {
	Type string `json:"type"`
}

// ParseEnvelope extracts the command tag from a raw message.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("invalid message format: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("missing message type")
	}
	return env, nil
}

type CreateLobbyCommand struct {
	PlayerName string `json:"player_name"`
	MapSize    string `json:"map_size"`
}

type JoinLobbyCommand struct {
	LobbyID    string `json:"lobby_id"`
	PlayerName string `json:"player_name"`
}

type EndTurnCommand struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type RejoinGameCommand struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type MoveUnitCommand struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	UnitID   string `json:"unit_id"`
	ToQ      int    `json:"to_q"`
	ToR      int    `json:"to_r"`
}

type AttackUnitCommand struct {
	GameID     string `json:"game_id"`
	PlayerID   string `json:"player_id"`
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`
}

type FortifyUnitCommand struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	UnitID   string `json:"unit_id"`
}

type BuyUnitCommand struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	CityID   string `json:"city_id"`
	UnitType string `json:"unit_type"`
}
