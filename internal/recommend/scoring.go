package recommend

import (
	"fmt"
	"math"

	"wellness-nudge-backend/internal/catalog"
	"wellness-nudge-backend/internal/metrics"
)

// Window is a time-of-day bucket. The zero value means "no window": scoring
// against it treats every time gate as matching (relaxed mode).
type Window string

const (
	WindowAny     Window = ""
	WindowMorning Window = "morning"
	WindowDay     Window = "day"
	WindowEvening Window = "evening"
)

// CurrentWindow buckets an hour of day: 05-11 morning, 12-17 day, the rest
// evening.
func CurrentWindow(hour int) Window {
	switch {
	case hour >= 5 && hour <= 11:
		return WindowMorning
	case hour >= 12 && hour <= 17:
		return WindowDay
	default:
		return WindowEvening
	}
}

// Weights tunes how the scoring signals combine.
type Weights struct {
	Urgency   float64 `yaml:"urgency"`
	Impact    float64 `yaml:"impact"`
	Effort    float64 `yaml:"effort"`
	TimeOfDay float64 `yaml:"time_of_day"`
	Penalty   float64 `yaml:"penalty"`
}

// DefaultWeights returns the production configuration.
func DefaultWeights() Weights {
	return Weights{
		Urgency:   0.5,
		Impact:    0.3,
		Effort:    0.15,
		TimeOfDay: 0.15,
		Penalty:   0.2,
	}
}

// WeightsFromMap overlays named overrides onto the defaults. Unknown names
// are rejected so a typo in a config file cannot silently no-op.
func WeightsFromMap(overrides map[string]float64) (Weights, error) {
	w := DefaultWeights()
	for name, v := range overrides {
		switch name {
		case "urgency":
			w.Urgency = v
		case "impact":
			w.Impact = v
		case "effort":
			w.Effort = v
		case "time_of_day":
			w.TimeOfDay = v
		case "penalty":
			w.Penalty = v
		default:
			return Weights{}, fmt.Errorf("unknown weight %q", name)
		}
	}
	return w, nil
}

// TaskScore is one scored recommendation.
type TaskScore struct {
	Task      catalog.Task `json:"task"`
	Score     float64      `json:"score"`
	Rationale string       `json:"rationale"`
}

// urgency maps how far the current metrics are from the category's daily
// goal onto [0, 1].
func urgency(cat catalog.Category, m metrics.Snapshot) float64 {
	switch cat {
	case catalog.CategoryHydration:
		return math.Max(0, float64(2000-m.WaterML)/2000)
	case catalog.CategoryMovement:
		return math.Max(0, float64(8000-m.Steps)/8000)
	case catalog.CategorySleep:
		if m.SleepHours < 7 {
			return 1
		}
		return 0
	case catalog.CategoryScreen:
		if m.ScreenTimeMin > 120 {
			return 1
		}
		return 0
	case catalog.CategoryMood:
		if m.Mood1to5 <= 2 {
			return 1
		}
		return 0.3
	default:
		return 0
	}
}

// inverseEffort rewards cheap tasks: 1/log2(effort+2), effort clamped to at
// least one minute.
func inverseEffort(effortMin float64) float64 {
	if effortMin < 1 {
		effortMin = 1
	}
	return 1 / math.Log2(effortMin+2)
}

// timeOfDayFactor is a soft preference: 1 when the gate is absent or matches
// the window, 0.2 otherwise. An empty window matches everything.
func timeOfDayFactor(gate string, window Window) float64 {
	if gate == "" || window == WindowAny || gate == string(window) {
		return 1
	}
	return 0.2
}

// roundScore rounds half away from zero to 4 decimal places.
func roundScore(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// Score computes a task's recommendation score and its rationale. Pure:
// identical inputs always produce the identical score.
func Score(t catalog.Task, m metrics.Snapshot, window Window, w Weights) TaskScore {
	u := urgency(t.Category, m)
	ie := inverseEffort(t.EffortMin)
	tod := timeOfDayFactor(t.TimeGate, window)

	raw := w.Urgency*u +
		w.Impact*t.ImpactWeight +
		w.Effort*ie +
		w.TimeOfDay*tod -
		w.Penalty*float64(t.Ignores)
	score := roundScore(raw)

	rationale := fmt.Sprintf(
		"score %.4f: urgency=%.3f impact=%.2f inv_effort=%.3f tod=%.1f ignores=%d",
		score, u, t.ImpactWeight, ie, tod, t.Ignores,
	)

	return TaskScore{Task: t, Score: score, Rationale: rationale}
}
