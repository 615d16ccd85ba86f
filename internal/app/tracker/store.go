package tracker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pitchside/matchtrack/internal/domains/entities"
	"github.com/pitchside/matchtrack/pkg/logging"
)

// Persistence is the snapshot backend the store writes through after every
// mutation. Writes are best-effort: a failure is logged, never surfaced.
type Persistence interface {
	SaveSnapshot(ctx context.Context, snap entities.Snapshot) error
}

// Options configures a Store. Zero-value fields get real defaults, so tests
// can swap in a fake clock or id source without touching anything else.
type Options struct {
	Now         func() time.Time
	NewId       func() string
	Persistence Persistence
}

// Store is the authoritative state container for the tracker: the active
// match, completed-match history, the roster cache and the reminder
// bookkeeping. All mutation goes through one mutex; scores are always
// recounted from the event list, never adjusted incrementally.
type Store struct {
	mu          sync.Mutex
	now         func() time.Time
	newId       func() string
	persistence Persistence
	subscribers []func(entities.Snapshot)

	active   *entities.ActiveMatch
	history  []entities.Match
	roster   []string
	reminder entities.TimerReminder
}

func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewId == nil {
		opts.NewId = uuid.NewString
	}
	return &Store{
		now:         opts.Now,
		newId:       opts.NewId,
		persistence: opts.Persistence,
	}
}

// Subscribe registers a callback invoked synchronously after every
// mutation with a copy of the new state.
func (s *Store) Subscribe(fn func(entities.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Restore replaces the store's state with a previously persisted snapshot.
// Used once at boot, before any subscribers attach.
func (s *Store) Restore(snap entities.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = snap.Active
	s.history = snap.History
	s.roster = snap.Roster
	s.reminder = snap.Reminder
}

// StartGame begins a new match against the named opponent. Any unfinished
// previous match is discarded without archiving; confirming that is the
// caller's job.
func (s *Store) StartGame(opponentName string) (string, error) {
	opponentName = strings.TrimSpace(opponentName)
	if opponentName == "" {
		return "", ErrBlankOpponent
	}
	s.mu.Lock()
	id := s.newId()
	s.active = &entities.ActiveMatch{
		Id:           id,
		OpponentName: opponentName,
		Events:       []entities.Event{},
	}
	s.reminder.ShouldShow = false
	s.reminder.Dismissed = false
	s.reminder.LastTrigger = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return id, nil
}

// FinishGame freezes the active match into a history entry, newest-first,
// and resets the active slot. No-op when nothing is in progress.
func (s *Store) FinishGame() {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return
	}
	match := entities.Match{
		Id:            s.active.Id,
		OpponentName:  s.active.OpponentName,
		MyScore:       s.active.MyScore,
		OpponentScore: s.active.OpponentScore,
		Events:        s.active.Events,
		FinalTime:     s.elapsedLocked(),
		Timestamp:     s.now(),
	}
	s.history = append([]entities.Match{match}, s.history...)
	s.active = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	logging.Info("match finished",
		zap.String("match_id", match.Id),
		zap.Int("my_score", match.MyScore),
		zap.Int("opponent_score", match.OpponentScore),
	)
}

// AddEvent appends an event to the active match, stamping it with the
// current clock reading. Goals change the score via recount. A non-blank
// label is upserted into the roster, and logging an event while the clock
// is stopped records a reminder invocation.
func (s *Store) AddEvent(
	eventType entities.EventType,
	team entities.Team,
	label string,
	meta entities.EventMeta,
) (entities.Event, error) {
	if !eventType.Valid() {
		return entities.Event{}, ErrInvalidEventType
	}
	if !team.Valid() {
		return entities.Event{}, ErrInvalidTeam
	}
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return entities.Event{}, ErrNoActiveMatch
	}
	event := entities.Event{
		Id:        s.newId(),
		Type:      eventType,
		Team:      team,
		Label:     label,
		Meta:      meta,
		GameTime:  s.elapsedLocked(),
		Timestamp: s.now(),
	}
	s.active.Events = append([]entities.Event{event}, s.active.Events...)
	s.recountActiveLocked()
	s.addToRosterLocked(label)
	if !s.active.IsRunning {
		s.noteInvocationLocked("event_logged")
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return event, nil
}

// UpdateEvent partial-patches an active-match event by id and recounts
// scores from the resulting list. Unknown ids are a silent no-op.
func (s *Store) UpdateEvent(eventId string, patch entities.EventPatch) error {
	if patch.Type != nil && !patch.Type.Valid() {
		return ErrInvalidEventType
	}
	if patch.Team != nil && !patch.Team.Valid() {
		return ErrInvalidTeam
	}
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return nil
	}
	patched := false
	for i := range s.active.Events {
		if s.active.Events[i].Id == eventId {
			applyPatch(&s.active.Events[i], patch)
			patched = true
			break
		}
	}
	if !patched {
		s.mu.Unlock()
		return nil
	}
	s.recountActiveLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return nil
}

// UndoLastEvent drops the most recently added event. No-op on an empty log.
func (s *Store) UndoLastEvent() {
	s.mu.Lock()
	if s.active == nil || len(s.active.Events) == 0 {
		s.mu.Unlock()
		return
	}
	s.active.Events = s.active.Events[1:]
	s.recountActiveLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// DeleteEvent removes an active-match event by id. Unknown ids are a
// silent no-op.
func (s *Store) DeleteEvent(eventId string) {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return
	}
	removed := false
	for i := range s.active.Events {
		if s.active.Events[i].Id == eventId {
			s.active.Events = append(s.active.Events[:i], s.active.Events[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	s.recountActiveLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// Snapshot returns a copy of the full store state.
func (s *Store) Snapshot() entities.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ActiveMatch returns a copy of the in-progress match, if any.
func (s *Store) ActiveMatch() (entities.ActiveMatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return entities.ActiveMatch{}, false
	}
	return copyActive(s.active), true
}

// History returns a copy of the completed matches, newest-first.
func (s *Store) History() []entities.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyHistory(s.history)
}

func (s *Store) recountActiveLocked() {
	s.active.MyScore, s.active.OpponentScore = entities.CountGoals(s.active.Events)
}

// publish persists the snapshot best-effort and notifies subscribers.
// Called outside the store mutex so callbacks may re-enter the store.
func (s *Store) publish(snap entities.Snapshot) {
	if s.persistence != nil {
		if err := s.persistence.SaveSnapshot(context.Background(), snap); err != nil {
			logging.Error("failed to persist snapshot", zap.Error(err))
		}
	}
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() entities.Snapshot {
	snap := entities.Snapshot{
		History:  copyHistory(s.history),
		Roster:   append([]string(nil), s.roster...),
		Reminder: s.reminder,
	}
	if s.active != nil {
		active := copyActive(s.active)
		snap.Active = &active
	}
	return snap
}

func copyActive(m *entities.ActiveMatch) entities.ActiveMatch {
	out := *m
	out.Events = append([]entities.Event(nil), m.Events...)
	return out
}

func copyHistory(history []entities.Match) []entities.Match {
	out := make([]entities.Match, len(history))
	for i, m := range history {
		out[i] = m
		out[i].Events = append([]entities.Event(nil), m.Events...)
	}
	return out
}

func applyPatch(event *entities.Event, patch entities.EventPatch) {
	if patch.Type != nil {
		event.Type = *patch.Type
	}
	if patch.Team != nil {
		event.Team = *patch.Team
	}
	if patch.Label != nil {
		event.Label = *patch.Label
	}
	if patch.Meta != nil {
		event.Meta = *patch.Meta
	}
	if patch.GameTime != nil {
		event.GameTime = *patch.GameTime
	}
}
