package tracker

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/matchtrack/internal/domains/entities"
	"github.com/pitchside/matchtrack/pkg/logging"
)

// History entries stay editable after a match ends. Every edit stamps
// LastEdited and recounts that match's scores from the full event list,
// so drift cannot accumulate no matter the edit order.

// DeleteMatch removes one history entry by id. Irreversible; unknown ids
// are a silent no-op.
func (s *Store) DeleteMatch(matchId string) {
	s.mu.Lock()
	removed := false
	for i := range s.history {
		if s.history[i].Id == matchId {
			s.history = append(s.history[:i], s.history[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	logging.Info("match deleted", zap.String("match_id", matchId))
}

// AddHistoricalEvent appends an event to a completed match. The caller
// supplies the game time since the match clock no longer exists.
func (s *Store) AddHistoricalEvent(
	matchId string,
	eventType entities.EventType,
	team entities.Team,
	label string,
	meta entities.EventMeta,
	gameTime time.Duration,
) (entities.Event, error) {
	if !eventType.Valid() {
		return entities.Event{}, ErrInvalidEventType
	}
	if !team.Valid() {
		return entities.Event{}, ErrInvalidTeam
	}
	s.mu.Lock()
	match := s.findMatchLocked(matchId)
	if match == nil {
		s.mu.Unlock()
		return entities.Event{}, ErrMatchNotFound
	}
	event := entities.Event{
		Id:        s.newId(),
		Type:      eventType,
		Team:      team,
		Label:     label,
		Meta:      meta,
		GameTime:  gameTime,
		Timestamp: s.now(),
	}
	match.Events = append([]entities.Event{event}, match.Events...)
	s.touchMatchLocked(match)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return event, nil
}

// UpdateHistoricalEvent partial-patches an event in a completed match.
// Unknown match or event ids are a silent no-op.
func (s *Store) UpdateHistoricalEvent(
	matchId, eventId string,
	patch entities.EventPatch,
) error {
	if patch.Type != nil && !patch.Type.Valid() {
		return ErrInvalidEventType
	}
	if patch.Team != nil && !patch.Team.Valid() {
		return ErrInvalidTeam
	}
	s.mu.Lock()
	match := s.findMatchLocked(matchId)
	if match == nil {
		s.mu.Unlock()
		return nil
	}
	patched := false
	for i := range match.Events {
		if match.Events[i].Id == eventId {
			applyPatch(&match.Events[i], patch)
			patched = true
			break
		}
	}
	if !patched {
		s.mu.Unlock()
		return nil
	}
	s.touchMatchLocked(match)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return nil
}

// DeleteHistoricalEvent removes an event from a completed match by id.
func (s *Store) DeleteHistoricalEvent(matchId, eventId string) {
	s.mu.Lock()
	match := s.findMatchLocked(matchId)
	if match == nil {
		s.mu.Unlock()
		return
	}
	removed := false
	for i := range match.Events {
		if match.Events[i].Id == eventId {
			match.Events = append(match.Events[:i], match.Events[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	s.touchMatchLocked(match)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// UpdateMatchMetadata renames the opponent on a completed match.
func (s *Store) UpdateMatchMetadata(matchId, opponentName string) error {
	opponentName = strings.TrimSpace(opponentName)
	if opponentName == "" {
		return ErrBlankOpponent
	}
	s.mu.Lock()
	match := s.findMatchLocked(matchId)
	if match == nil {
		s.mu.Unlock()
		return nil
	}
	match.OpponentName = opponentName
	s.touchMatchLocked(match)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return nil
}

func (s *Store) findMatchLocked(matchId string) *entities.Match {
	for i := range s.history {
		if s.history[i].Id == matchId {
			return &s.history[i]
		}
	}
	return nil
}

func (s *Store) touchMatchLocked(match *entities.Match) {
	match.MyScore, match.OpponentScore = entities.CountGoals(match.Events)
	edited := s.now()
	match.LastEdited = &edited
}
