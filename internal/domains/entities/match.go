package entities

import "time"

// ActiveMatch is the single in-progress match. Scores are derived from the
// event list by the store and never set directly. Events are ordered
// newest-first.
type ActiveMatch struct {
	Id            string        `json:"id"`
	OpponentName  string        `json:"opponentName"`
	MyScore       int           `json:"myScore"`
	OpponentScore int           `json:"opponentScore"`
	Events        []Event       `json:"events"`
	IsRunning     bool          `json:"isRunning"`
	StartedAt     time.Time     `json:"startedAt"`
	Accumulated   time.Duration `json:"accumulated"`
}

// Match is a frozen snapshot of a completed match. History entries remain
// editable after the fact; LastEdited marks post-hoc edits.
type Match struct {
	Id            string        `json:"id"`
	OpponentName  string        `json:"opponentName"`
	MyScore       int           `json:"myScore"`
	OpponentScore int           `json:"opponentScore"`
	Events        []Event       `json:"events"`
	FinalTime     time.Duration `json:"finalTime"`
	Timestamp     time.Time     `json:"timestamp"`
	LastEdited    *time.Time    `json:"lastEdited,omitempty"`
}

// TimerReminder is UX bookkeeping for nagging the user to start the clock.
// InvocationCount only ever grows.
type TimerReminder struct {
	ShouldShow      bool   `json:"shouldShow"`
	Dismissed       bool   `json:"dismissed"`
	InvocationCount int    `json:"invocationCount"`
	LastTrigger     string `json:"lastTrigger"`
}

// Snapshot is the whole persisted state object: the active match (nil when
// none is in progress), completed matches newest-first, and the roster cache.
type Snapshot struct {
	Active   *ActiveMatch  `json:"active,omitempty"`
	History  []Match       `json:"history"`
	Roster   []string      `json:"roster"`
	Reminder TimerReminder `json:"reminder"`
}

// CountGoals tallies goal events per team. It is the single source of truth
// for scores everywhere a match's event list changes.
func CountGoals(events []Event) (mine, theirs int) {
	for _, e := range events {
		if e.Type != EventGoal {
			continue
		}
		if e.Team == TeamUs {
			mine++
		} else {
			theirs++
		}
	}
	return mine, theirs
}
