package player

import (
	"fmt"
	"strings"
	"sync"
)

// Statistics tracks a session's activity. They are shown to the player but
// not saved with snapshots.
type Statistics struct {
	Moves            int
	MapsCompleted    int
	RiddlesSolved    int
	RiddlesFailed    int
	EncountersWon    int
	EncountersLost   int
	EncountersByKind map[string]int
	mu               sync.RWMutex
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{EncountersByKind: make(map[string]int)}
}

// RecordMove increments the step count.
func (s *Statistics) RecordMove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Moves++
}

// RecordMapCompleted increments completed maps.
func (s *Statistics) RecordMapCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MapsCompleted++
}

// RecordRiddle counts a riddle attempt.
func (s *Statistics) RecordRiddle(solved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if solved {
		s.RiddlesSolved++
	} else {
		s.RiddlesFailed++
	}
}

// RecordEncounter counts an encounter outcome.
func (s *Statistics) RecordEncounter(kind string, won bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EncountersByKind == nil {
		s.EncountersByKind = make(map[string]int)
	}
	s.EncountersByKind[kind]++
	if won {
		s.EncountersWon++
	} else {
		s.EncountersLost++
	}
}

// Summary renders the statistics for the stats command.
func (s *Statistics) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Steps taken:       %d\n", s.Moves)
	fmt.Fprintf(&b, "Maps completed:    %d\n", s.MapsCompleted)
	fmt.Fprintf(&b, "Riddles solved:    %d (wrong guesses: %d)\n", s.RiddlesSolved, s.RiddlesFailed)
	fmt.Fprintf(&b, "Encounters:        %d won, %d lost", s.EncountersWon, s.EncountersLost)
	return b.String()
}
