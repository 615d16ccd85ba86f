package tracker

import "strings"

const rosterLimit = 20

// AddToRoster records a player label in the most-recent-first roster
// cache. Blank names and exact duplicates are no-ops; the cache is
// truncated to twenty entries.
func (s *Store) AddToRoster(name string) {
	s.mu.Lock()
	if !s.addToRosterLocked(name) {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// ClearRoster empties the cache unconditionally.
func (s *Store) ClearRoster() {
	s.mu.Lock()
	s.roster = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// Roster returns a copy of the cached labels, most recent first.
func (s *Store) Roster() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.roster...)
}

func (s *Store) addToRosterLocked(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, existing := range s.roster {
		// Exact-string dedup only; "alex" and "Alex" are distinct entries.
		if existing == name {
			return false
		}
	}
	s.roster = append([]string{name}, s.roster...)
	if len(s.roster) > rosterLimit {
		s.roster = s.roster[:rosterLimit]
	}
	return true
}
