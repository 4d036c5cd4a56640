package recommend

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wellness-nudge-backend/internal/analytics"
	"wellness-nudge-backend/internal/metrics"
)

func RecommendationsHandler(e *Engine, store *metrics.Store, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var hourOverride *int
		if raw := r.URL.Query().Get("hour"); raw != "" {
			h, err := strconv.Atoi(raw)
			if err != nil || h < 0 || h > 23 {
				http.Error(w, "hour must be 0-23", http.StatusBadRequest)
				return
			}
			hourOverride = &h
		}

		scores := e.Recommend(hourOverride)

		ids := make([]string, 0, len(scores))
		for _, s := range scores {
			ids = append(ids, s.Task.ID)
		}
		rec.Log(analytics.FromRequest(r), "nudges_served", map[string]any{
			"task_ids": ids,
			"count":    len(ids),
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"recommendations": scores,
			"metrics":         store.Current(),
			"generated_at":    time.Now().UTC(),
		})
	}
}

// ForceResetHandler triggers the daily reset on demand (admin seeding).
func ForceResetHandler(e *Engine, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.ForceReset()
		rec.Log(analytics.FromRequest(r), "daily_reset", map[string]any{
			"forced": true,
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
