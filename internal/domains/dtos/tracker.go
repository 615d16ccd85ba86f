package dtos

import (
	"encoding/json"

	"github.com/pitchside/matchtrack/internal/domains/entities"
)

// Command is the envelope every websocket client message arrives in.
type Command struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type StartGameRequest struct {
	OpponentName string `json:"opponentName"`
}

type AddEventRequest struct {
	Type  entities.EventType `json:"type"`
	Team  entities.Team      `json:"team"`
	Label string             `json:"label"`
	Meta  entities.EventMeta `json:"meta"`
}

type UpdateEventRequest struct {
	EventId string              `json:"eventId"`
	Patch   entities.EventPatch `json:"patch"`
}

type DeleteEventRequest struct {
	EventId string `json:"eventId"`
}

type RosterRequest struct {
	Name string `json:"name"`
}

type MatchRequest struct {
	MatchId string `json:"matchId"`
}

type HistoryEventRequest struct {
	MatchId    string             `json:"matchId"`
	Type       entities.EventType `json:"type"`
	Team       entities.Team      `json:"team"`
	Label      string             `json:"label"`
	Meta       entities.EventMeta `json:"meta"`
	GameTimeMs int64              `json:"gameTimeMs"`
}

type UpdateHistoryEventRequest struct {
	MatchId string              `json:"matchId"`
	EventId string              `json:"eventId"`
	Patch   entities.EventPatch `json:"patch"`
}

type DeleteHistoryEventRequest struct {
	MatchId string `json:"matchId"`
	EventId string `json:"eventId"`
}

type MatchMetadataRequest struct {
	MatchId      string `json:"matchId"`
	OpponentName string `json:"opponentName"`
}

// StateResponse carries the full store snapshot, pushed after every
// mutation and once on connect.
type StateResponse struct {
	Type  string            `json:"type"`
	State entities.Snapshot `json:"state"`
}

type ErrorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type ClockResponse struct {
	ElapsedMs int64  `json:"elapsedMs"`
	Display   string `json:"display"`
	Export    string `json:"export"`
	IsRunning bool   `json:"isRunning"`
}
