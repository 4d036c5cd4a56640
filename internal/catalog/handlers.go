package catalog

import (
	"encoding/json"
	"net/http"

	"wellness-nudge-backend/internal/analytics"
)

type actionRequest struct {
	TaskID string `json:"task_id"`
}

func decodeAction(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body actionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return "", false
	}
	if body.TaskID == "" {
		http.Error(w, "task_id required", http.StatusBadRequest)
		return "", false
	}
	return body.TaskID, true
}

func ListTasksHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

func CompleteTaskHandler(c *Catalog, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := decodeAction(w, r)
		if !ok {
			return
		}

		if !c.Complete(id) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		rec.Log(analytics.FromRequest(r), "nudge_completed", map[string]any{
			"task_id": id,
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func DismissTaskHandler(c *Catalog, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := decodeAction(w, r)
		if !ok {
			return
		}

		if !c.Dismiss(id) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		t, _ := c.Get(id)
		rec.Log(analytics.FromRequest(r), "nudge_dismissed", map[string]any{
			"task_id": id,
			"ignores": t.Ignores,
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

// SetIgnoresHandler overwrites a task's ignore count (admin seeding).
func SetIgnoresHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TaskID string `json:"task_id"`
			Count  int    `json:"count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == "" {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		if body.Count < 0 {
			http.Error(w, "count must be non-negative", http.StatusBadRequest)
			return
		}

		if !c.SetIgnores(body.TaskID, body.Count) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
