package metrics

import "testing"

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestBaseline(t *testing.T) {
	want := Snapshot{Mood1to5: 3}
	if got := Baseline(); got != want {
		t.Errorf("Baseline() = %+v, want %+v", got, want)
	}
	if got := NewStore().Current(); got != want {
		t.Errorf("new store snapshot = %+v, want baseline", got)
	}
}

func TestApplyPartialMerge(t *testing.T) {
	s := NewStore()

	got := s.Apply(Update{WaterML: intPtr(500), SleepHours: floatPtr(6.5)})

	want := Snapshot{WaterML: 500, SleepHours: 6.5, Mood1to5: 3}
	if got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}

	// a second partial write leaves earlier fields alone
	got = s.Apply(Update{Steps: intPtr(2000)})
	want.Steps = 2000
	if got != want {
		t.Errorf("second Apply = %+v, want %+v", got, want)
	}
}

func TestApplyEmptyUpdateIsNoOp(t *testing.T) {
	s := NewStore()
	before := s.Current()
	if got := s.Apply(Update{}); got != before {
		t.Errorf("empty update changed snapshot: %+v", got)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := NewStore()
	snap := s.Current()
	snap.WaterML = 9999
	if s.Current().WaterML != 0 {
		t.Error("caller mutation leaked into the store")
	}
}

func TestSetAndReset(t *testing.T) {
	s := NewStore()
	seeded := Snapshot{WaterML: 900, Steps: 4000, SleepHours: 6, ScreenTimeMin: 150, Mood1to5: 2}

	s.Set(seeded)
	if got := s.Current(); got != seeded {
		t.Errorf("Set: got %+v", got)
	}

	s.Reset()
	if got := s.Current(); got != Baseline() {
		t.Errorf("Reset: got %+v", got)
	}
}

func TestCredits(t *testing.T) {
	s := NewStore()
	s.AddWater(500)
	s.AddWater(250)
	s.AddSteps(1000)

	got := s.Current()
	if got.WaterML != 750 || got.Steps != 1000 {
		t.Errorf("credits = %+v, want water 750 steps 1000", got)
	}
}
