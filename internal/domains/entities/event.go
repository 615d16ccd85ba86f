package entities

import "time"

type (
	EventType string
	Team      string
)

const (
	EventGoal         EventType = "goal"
	EventPenalty      EventType = "penalty"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventSubstitution EventType = "substitution"

	TeamUs   Team = "us"
	TeamThem Team = "them"
)

func (t EventType) Valid() bool {
	switch t {
	case EventGoal, EventPenalty, EventYellowCard, EventRedCard, EventSubstitution:
		return true
	}
	return false
}

func (t EventType) IsCard() bool {
	return t == EventYellowCard || t == EventRedCard
}

func (t Team) Valid() bool {
	return t == TeamUs || t == TeamThem
}

// EventMeta holds the optional annotations observed on events. The set is
// closed: penalty-kick flag plus player identity and free-form notes.
type EventMeta struct {
	IsPK   bool   `json:"isPK,omitempty"`
	Player string `json:"player,omitempty"`
	Number string `json:"number,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Event is a single timestamped record in a match's log. GameTime is the
// clock reading captured at creation and is never recomputed afterwards;
// Timestamp is wall-clock creation time.
type Event struct {
	Id        string        `json:"id"`
	Type      EventType     `json:"type"`
	Team      Team          `json:"team"`
	Label     string        `json:"label"`
	Meta      EventMeta     `json:"meta"`
	GameTime  time.Duration `json:"gameTime"`
	Timestamp time.Time     `json:"timestamp"`
}

// EventPatch is a partial update applied to an existing event. Nil fields
// are left untouched.
type EventPatch struct {
	Type     *EventType     `json:"type,omitempty"`
	Team     *Team          `json:"team,omitempty"`
	Label    *string        `json:"label,omitempty"`
	Meta     *EventMeta     `json:"meta,omitempty"`
	GameTime *time.Duration `json:"gameTime,omitempty"`
}

// PlayerName reports the canonical identity of the player attached to an
// event: Meta.Player when set, else the raw label.
func (e Event) PlayerName() string {
	if e.Meta.Player != "" {
		return e.Meta.Player
	}
	return e.Label
}
