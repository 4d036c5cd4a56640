package metrics

import (
	"encoding/json"
	"net/http"
)

func validate(u Update) string {
	if u.WaterML != nil && (*u.WaterML < 0 || *u.WaterML > 20000) {
		return "water_ml out of range"
	}
	if u.Steps != nil && (*u.Steps < 0 || *u.Steps > 200000) {
		return "steps out of range"
	}
	if u.SleepHours != nil && (*u.SleepHours < 0 || *u.SleepHours > 24) {
		return "sleep_hours out of range"
	}
	if u.ScreenTimeMin != nil && (*u.ScreenTimeMin < 0 || *u.ScreenTimeMin > 1440) {
		return "screen_time_min out of range"
	}
	if u.Mood1to5 != nil && (*u.Mood1to5 < 1 || *u.Mood1to5 > 5) {
		return "mood_1to5 out of range"
	}
	return ""
}

func GetMetricsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.Current())
	}
}

func UpdateMetricsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body Update
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if msg := validate(body); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		snap := store.Apply(body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// SetMetricsHandler overwrites the full snapshot (admin seeding, not user flow).
func SetMetricsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body Snapshot
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		store.Set(body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.Current())
	}
}
