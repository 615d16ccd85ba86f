package tracker

import (
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/matchtrack/internal/domains/entities"
	"github.com/pitchside/matchtrack/pkg/logging"
)

// The match clock is a two-state machine: STOPPED (IsRunning=false, zero
// StartedAt) and RUNNING. Accumulated collects completed run segments;
// elapsed time is Accumulated plus the open segment when running. The
// clock runs until toggled, with no cutoff.

// ToggleTimer flips the clock between stopped and running. No-op without
// an active match.
func (s *Store) ToggleTimer() {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return
	}
	if s.active.IsRunning {
		s.active.Accumulated += s.now().Sub(s.active.StartedAt)
		s.active.StartedAt = time.Time{}
		s.active.IsRunning = false
	} else {
		s.active.StartedAt = s.now()
		s.active.IsRunning = true
	}
	running := s.active.IsRunning
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	logging.Info("timer toggled", zap.Bool("running", running))
}

// ResetTimer zeroes the accumulator. When running, the open segment is
// re-anchored to now so the elapsed reading drops to zero immediately.
func (s *Store) ResetTimer() {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return
	}
	s.active.Accumulated = 0
	if s.active.IsRunning {
		s.active.StartedAt = s.now()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// ElapsedTime reads the clock without mutating anything; safe to poll at
// any cadence.
func (s *Store) ElapsedTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Store) elapsedLocked() time.Duration {
	if s.active == nil {
		return 0
	}
	elapsed := s.active.Accumulated
	if s.active.IsRunning {
		elapsed += s.now().Sub(s.active.StartedAt)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// TimerReminder returns the current reminder bookkeeping.
func (s *Store) TimerReminder() entities.TimerReminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminder
}

// DismissTimerReminder stops the UI from nagging until the next match.
func (s *Store) DismissTimerReminder() {
	s.mu.Lock()
	s.reminder.Dismissed = true
	s.reminder.ShouldShow = false
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

func (s *Store) noteInvocationLocked(trigger string) {
	s.reminder.InvocationCount++
	s.reminder.LastTrigger = trigger
	s.reminder.ShouldShow = !s.reminder.Dismissed
}
