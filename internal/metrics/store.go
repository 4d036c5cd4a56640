package metrics

import "sync"

// Snapshot is the user's daily wellness metrics.
type Snapshot struct {
	WaterML       int     `json:"water_ml" yaml:"water_ml"`
	Steps         int     `json:"steps" yaml:"steps"`
	SleepHours    float64 `json:"sleep_hours" yaml:"sleep_hours"`
	ScreenTimeMin int     `json:"screen_time_min" yaml:"screen_time_min"`
	Mood1to5      int     `json:"mood_1to5" yaml:"mood_1to5"`
}

// Update carries a partial metrics write; nil fields are left untouched.
type Update struct {
	WaterML       *int     `json:"water_ml"`
	Steps         *int     `json:"steps"`
	SleepHours    *float64 `json:"sleep_hours"`
	ScreenTimeMin *int     `json:"screen_time_min"`
	Mood1to5      *int     `json:"mood_1to5"`
}

// Baseline is the neutral start-of-day snapshot.
func Baseline() Snapshot {
	return Snapshot{Mood1to5: 3}
}

// Store holds the single in-memory metrics snapshot.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewStore() *Store {
	return &Store{snap: Baseline()}
}

// Current returns a copy of the snapshot; callers cannot mutate stored state.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Apply merges the provided fields into the snapshot and returns the result.
func (s *Store) Apply(u Update) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.WaterML != nil {
		s.snap.WaterML = *u.WaterML
	}
	if u.Steps != nil {
		s.snap.Steps = *u.Steps
	}
	if u.SleepHours != nil {
		s.snap.SleepHours = *u.SleepHours
	}
	if u.ScreenTimeMin != nil {
		s.snap.ScreenTimeMin = *u.ScreenTimeMin
	}
	if u.Mood1to5 != nil {
		s.snap.Mood1to5 = *u.Mood1to5
	}
	return s.snap
}

// Set overwrites the whole snapshot (deterministic test seeding).
func (s *Store) Set(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Reset restores the baseline.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Baseline()
}

// AddWater credits completed hydration nudges.
func (s *Store) AddWater(ml int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.WaterML += ml
}

// AddSteps credits completed movement nudges.
func (s *Store) AddSteps(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Steps += n
}
