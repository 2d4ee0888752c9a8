package session

import (
	"sync"

	"github.com/google/uuid"
)

// State holds the selections and race of one race session.
// A session lives as long as one browser page (or one `play` run).
type State struct {
	ID uuid.UUID

	mu       sync.RWMutex
	trackID  *int
	playerID *int
	raceID   *int
}

// Snapshot is a point-in-time copy of the session selections
type Snapshot struct {
	TrackID  *int
	PlayerID *int
	RaceID   *int
}

// NewState creates an empty session
func NewState() *State {
	return &State{ID: uuid.New()}
}

// SelectTrack replaces the selected track
func (s *State) SelectTrack(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackID = &id
}

// SelectPlayer replaces the selected racer
func (s *State) SelectPlayer(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerID = &id
}

// SetRace records the race this session drives
func (s *State) SetRace(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raceID = &id
}

// ClearRace forgets the race while keeping the selections
func (s *State) ClearRace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raceID = nil
}

// RaceID returns the active race id, if any
func (s *State) RaceID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raceID == nil {
		return 0, false
	}
	return *s.raceID, true
}

// PlayerID returns the selected racer id, if any
func (s *State) PlayerID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.playerID == nil {
		return 0, false
	}
	return *s.playerID, true
}

// Snapshot copies the current selections
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		TrackID:  copyID(s.trackID),
		PlayerID: copyID(s.playerID),
		RaceID:   copyID(s.raceID),
	}
}

// Reset clears all selections and the race, keeping the session id
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackID = nil
	s.playerID = nil
	s.raceID = nil
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
