package catalog

import (
	"sync"

	"wellness-nudge-backend/internal/metrics"
)

type Category string

const (
	CategoryHydration Category = "hydration"
	CategoryMovement  Category = "movement"
	CategoryScreen    Category = "screen"
	CategorySleep     Category = "sleep"
	CategoryMood      Category = "mood"
)

const (
	// SubstitutionThreshold is the dismissal count at which a task gives way
	// to its micro-alternative.
	SubstitutionThreshold = 3
	// cooldownCycles is how many recommendation cycles a dismissed task
	// stays hidden.
	cooldownCycles = 2
)

// Task is one nudge definition plus its per-day runtime state.
type Task struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Category     Category `json:"category" yaml:"category"`
	ImpactWeight float64  `json:"impact_weight" yaml:"impact_weight"`
	EffortMin    float64  `json:"effort_min" yaml:"effort_min"`
	TimeGate     string   `json:"time_gate,omitempty" yaml:"time_gate,omitempty"`
	MicroAlt     string   `json:"micro_alt,omitempty" yaml:"micro_alt,omitempty"`
	// Amount is the metric credit applied on completion (ml for hydration,
	// steps for movement; zero for everything else).
	Amount int `json:"amount,omitempty" yaml:"amount,omitempty"`

	Ignores        int  `json:"ignores" yaml:"-"`
	CompletedToday bool `json:"completed_today" yaml:"-"`
	// CooldownUntil is the last recommendation cycle the task stays hidden
	// for after a dismissal. Zero means no cooldown.
	CooldownUntil int `json:"-" yaml:"-"`
}

// DefaultTasks is the built-in nudge catalog.
func DefaultTasks() []Task {
	return []Task{
		{ID: "water-500", Title: "Drink 500 ml of water", Category: CategoryHydration, ImpactWeight: 0.8, EffortMin: 3, MicroAlt: "water-250", Amount: 500},
		{ID: "water-250", Title: "Drink 250 ml of water", Category: CategoryHydration, ImpactWeight: 0.5, EffortMin: 1, Amount: 250},
		{ID: "steps-1k", Title: "Walk 1,000 steps", Category: CategoryMovement, ImpactWeight: 0.9, EffortMin: 10, MicroAlt: "steps-300", Amount: 1000},
		{ID: "steps-300", Title: "Walk 300 steps", Category: CategoryMovement, ImpactWeight: 0.6, EffortMin: 3, Amount: 300},
		{ID: "screen-break", Title: "Take a screen break", Category: CategoryScreen, ImpactWeight: 0.55, EffortMin: 10},
		{ID: "sleep-winddown", Title: "Start your wind-down routine", Category: CategorySleep, ImpactWeight: 1.0, EffortMin: 10, TimeGate: "evening"},
		{ID: "mood-checkin", Title: "Check in with your mood", Category: CategoryMood, ImpactWeight: 0.4, EffortMin: 5, TimeGate: "morning"},
	}
}

// Catalog owns the task set, its runtime state and the recommendation-cycle
// counter. All mutation goes through its methods.
type Catalog struct {
	mu       sync.Mutex
	tasks    []*Task
	index    map[string]*Task
	parentOf map[string]string // micro-alternative id -> parent id
	cycle    int
	store    *metrics.Store
}

// New builds a catalog over the default task set.
func New(store *metrics.Store) *Catalog {
	c, err := NewFromTasks(DefaultTasks(), store)
	if err != nil {
		// the built-in catalog is validated by tests; this cannot fail
		panic(err)
	}
	return c
}

// NewFromTasks builds a catalog from validated definitions.
func NewFromTasks(defs []Task, store *metrics.Store) (*Catalog, error) {
	if err := Validate(defs); err != nil {
		return nil, err
	}

	c := &Catalog{
		index:    make(map[string]*Task, len(defs)),
		parentOf: make(map[string]string),
		store:    store,
	}
	for i := range defs {
		t := defs[i]
		c.tasks = append(c.tasks, &t)
		c.index[t.ID] = &t
	}
	for _, t := range c.tasks {
		if t.MicroAlt != "" {
			c.parentOf[t.MicroAlt] = t.ID
		}
	}
	return c, nil
}

// Complete marks a task done for today and applies its metric credit.
// Returns false if the id is unknown or the task is already completed.
func (c *Catalog) Complete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.index[id]
	if !ok || t.CompletedToday {
		return false
	}
	t.CompletedToday = true

	switch t.Category {
	case CategoryHydration:
		c.store.AddWater(t.Amount)
	case CategoryMovement:
		c.store.AddSteps(t.Amount)
	}
	return true
}

// Dismiss bumps the ignore count and, below the substitution threshold,
// hides the task for the next two recommendation cycles. At the threshold no
// cooldown is set: the micro-alternative takes over instead.
func (c *Catalog) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.index[id]
	if !ok {
		return false
	}
	t.Ignores++
	if t.Ignores < SubstitutionThreshold {
		t.CooldownUntil = c.cycle + cooldownCycles
	}
	return true
}

// DailyReset clears all volatile per-task state, the cycle counter and the
// metrics snapshot. Safe to call repeatedly.
func (c *Catalog) DailyReset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tasks {
		t.Ignores = 0
		t.CompletedToday = false
		t.CooldownUntil = 0
	}
	c.cycle = 0
	c.store.Reset()
}

// AdvanceCycle bumps the recommendation-cycle counter and returns it.
func (c *Catalog) AdvanceCycle() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycle++
	return c.cycle
}

func (c *Catalog) Cycle() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}

// Snapshot returns value copies of every task in definition order.
func (c *Catalog) Snapshot() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		out = append(out, *t)
	}
	return out
}

// Get returns a copy of one task.
func (c *Catalog) Get(id string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.index[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// ParentOf resolves a micro-alternative back to its parent task id.
func (c *Catalog) ParentOf(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.parentOf[id]
	return p, ok
}

// SetIgnores overwrites a task's ignore count (admin seeding, not user flow).
func (c *Catalog) SetIgnores(id string, n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.index[id]
	if !ok || n < 0 {
		return false
	}
	t.Ignores = n
	return true
}
