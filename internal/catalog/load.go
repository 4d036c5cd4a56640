package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var validGates = map[string]bool{"": true, "morning": true, "day": true, "evening": true}

var validCategories = map[Category]bool{
	CategoryHydration: true,
	CategoryMovement:  true,
	CategoryScreen:    true,
	CategorySleep:     true,
	CategoryMood:      true,
}

// Validate checks a task definition set: unique ids, known categories and
// gates, positive scoring inputs, and micro-alternative references that
// resolve without chaining.
func Validate(defs []Task) error {
	if len(defs) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	byID := make(map[string]Task, len(defs))
	for _, t := range defs {
		if t.ID == "" {
			return fmt.Errorf("task with empty id")
		}
		if _, dup := byID[t.ID]; dup {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		if !validCategories[t.Category] {
			return fmt.Errorf("task %q: unknown category %q", t.ID, t.Category)
		}
		if t.ImpactWeight <= 0 {
			return fmt.Errorf("task %q: impact_weight must be positive", t.ID)
		}
		if t.EffortMin <= 0 {
			return fmt.Errorf("task %q: effort_min must be positive", t.ID)
		}
		if !validGates[t.TimeGate] {
			return fmt.Errorf("task %q: unknown time_gate %q", t.ID, t.TimeGate)
		}
		byID[t.ID] = t
	}

	for _, t := range defs {
		if t.MicroAlt == "" {
			continue
		}
		alt, ok := byID[t.MicroAlt]
		if !ok {
			return fmt.Errorf("task %q: micro_alt %q does not exist", t.ID, t.MicroAlt)
		}
		if alt.ID == t.ID {
			return fmt.Errorf("task %q: micro_alt references itself", t.ID)
		}
		if alt.MicroAlt != "" {
			return fmt.Errorf("task %q: micro_alt %q has a micro_alt of its own", t.ID, t.MicroAlt)
		}
	}
	return nil
}

// File is the on-disk catalog override format.
type File struct {
	Tasks   []Task             `yaml:"tasks"`
	Weights map[string]float64 `yaml:"weights"`
}

// LoadFile reads and validates a YAML catalog override.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(f.Tasks); err != nil {
		return nil, err
	}
	return &f, nil
}
