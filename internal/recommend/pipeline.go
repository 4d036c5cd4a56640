package recommend

import (
	"sort"
	"sync"
	"time"

	"wellness-nudge-backend/internal/catalog"
	"wellness-nudge-backend/internal/metrics"
)

// resultSize is how many nudges a recommendation request returns.
const resultSize = 4

// Engine runs the recommendation pipeline over the catalog and metrics
// store. All entry points serialize on one mutex: the stores themselves have
// no partial-update safety.
type Engine struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	store    *metrics.Store
	weights  Weights
	lastDate string
	now      func() time.Time
}

func NewEngine(c *catalog.Catalog, store *metrics.Store, w Weights) *Engine {
	return &Engine{
		catalog: c,
		store:   store,
		weights: w,
		now:     time.Now,
	}
}

// maybeDailyReset clears all volatile state when the local calendar date has
// advanced since the last request. Pull model: nothing runs at midnight, the
// first request of the new day pays for the reset.
func (e *Engine) maybeDailyReset(now time.Time) bool {
	today := now.Format("2006-01-02")
	if e.lastDate == today {
		return false
	}
	reset := e.lastDate != ""
	if reset {
		e.catalog.DailyReset()
	}
	e.lastDate = today
	return reset
}

// ForceReset triggers the daily reset immediately (admin seeding).
func (e *Engine) ForceReset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalog.DailyReset()
	e.lastDate = e.now().Format("2006-01-02")
}

// Recommend returns the top nudges for the current catalog state and
// metrics. hourOverride, when non-nil, replaces the wall-clock hour.
// Deterministic: fixed state, metrics and hour always produce the same
// ordered result.
func (e *Engine) Recommend(hourOverride *int) []TaskScore {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.maybeDailyReset(now)
	cycle := e.catalog.AdvanceCycle()

	hour := now.Hour()
	if hourOverride != nil {
		hour = *hourOverride
	}
	window := CurrentWindow(hour)
	m := e.store.Current()

	tasks := e.catalog.Snapshot()
	byID := make(map[string]catalog.Task, len(tasks))
	parentOf := make(map[string]string)
	for _, t := range tasks {
		byID[t.ID] = t
		if t.MicroAlt != "" {
			parentOf[t.MicroAlt] = t.ID
		}
	}

	// Completion filter: done-for-today tasks are out unconditionally.
	var live []catalog.Task
	for _, t := range tasks {
		if !t.CompletedToday {
			live = append(live, t)
		}
	}

	// Micro-alternative eligibility: a micro task only competes once its
	// parent is completed or has been dismissed past the threshold.
	var eligible []catalog.Task
	for _, t := range live {
		if pid, isMicro := parentOf[t.ID]; isMicro {
			p := byID[pid]
			if !p.CompletedToday && p.Ignores < catalog.SubstitutionThreshold {
				continue
			}
		}
		eligible = append(eligible, t)
	}

	// Substitution: a repeatedly dismissed parent is replaced by its
	// micro-alternative and drops out itself.
	seen := make(map[string]bool, len(eligible))
	var candidates []catalog.Task
	for _, t := range eligible {
		if t.Ignores >= catalog.SubstitutionThreshold && t.MicroAlt != "" {
			alt := byID[t.MicroAlt]
			if !alt.CompletedToday {
				if !seen[alt.ID] {
					seen[alt.ID] = true
					candidates = append(candidates, alt)
				}
				continue
			}
		}
		if !seen[t.ID] {
			seen[t.ID] = true
			candidates = append(candidates, t)
		}
	}

	// Relaxation stage 1, the cooldown filter, all or nothing: dismissed tasks
	// stay hidden while cycle <= expiry, except past the substitution
	// threshold. Skipped entirely if it would leave too few candidates.
	cooled := filterTasks(candidates, func(t catalog.Task) bool {
		return t.Ignores >= catalog.SubstitutionThreshold || t.CooldownUntil < cycle
	})
	if len(cooled) >= resultSize {
		candidates = cooled
	}

	// Relaxation stage 2, the time gate, all or nothing: prefer tasks whose
	// gate matches the window. When too few match, the full pool is scored
	// in relaxed mode (time factor 1 for everyone).
	pool := candidates
	scoringWindow := window
	gated := filterTasks(candidates, func(t catalog.Task) bool {
		return t.TimeGate == "" || t.TimeGate == string(window)
	})
	if len(gated) >= resultSize {
		pool = gated
	} else {
		scoringWindow = WindowAny
	}

	scored := e.rank(pool, m, scoringWindow, parentOf)

	// Backfill: if micro-pair dedupe cut the gated pool short, rescore the
	// whole candidate set with the gate fully relaxed.
	if len(scored) < resultSize {
		scored = e.rank(candidates, m, WindowAny, parentOf)
	}

	if len(scored) > resultSize {
		scored = scored[:resultSize]
	}
	return scored
}

// rank is the single scoring path: score, sort by the total tie-break chain,
// then drop the lower-ranked member of any micro pair.
func (e *Engine) rank(pool []catalog.Task, m metrics.Snapshot, window Window, parentOf map[string]string) []TaskScore {
	scored := make([]TaskScore, 0, len(pool))
	for _, t := range pool {
		scored = append(scored, Score(t, m, window, e.weights))
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Task.ImpactWeight != b.Task.ImpactWeight {
			return a.Task.ImpactWeight > b.Task.ImpactWeight
		}
		if a.Task.EffortMin != b.Task.EffortMin {
			return a.Task.EffortMin < b.Task.EffortMin
		}
		return a.Task.ID < b.Task.ID
	})

	kept := make(map[string]bool, len(scored))
	out := scored[:0]
	for _, ts := range scored {
		partner := ts.Task.MicroAlt
		if partner == "" {
			partner = parentOf[ts.Task.ID]
		}
		if partner != "" && kept[partner] {
			continue
		}
		kept[ts.Task.ID] = true
		out = append(out, ts)
	}
	return out
}

func filterTasks(tasks []catalog.Task, keep func(catalog.Task) bool) []catalog.Task {
	var out []catalog.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
