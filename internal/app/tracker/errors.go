package tracker

import "errors"

var (
	ErrBlankOpponent    = errors.New("opponent name is blank")
	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidTeam      = errors.New("invalid team")
	ErrNoActiveMatch    = errors.New("no active match")
	ErrMatchNotFound    = errors.New("match not found")
)
