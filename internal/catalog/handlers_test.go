package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wellness-nudge-backend/internal/analytics"
)

func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestCompleteTaskHandler(t *testing.T) {
	c, _ := newTestCatalog(t)
	rec := analytics.NewRecorder(16)
	h := CompleteTaskHandler(c, rec)

	w := postJSON(t, h, "/tasks/complete", `{"task_id":"water-500"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	var resp map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp["ok"] {
		t.Error("ok = false on success")
	}

	// second completion the same day maps to not-found
	if w := postJSON(t, h, "/tasks/complete", `{"task_id":"water-500"}`); w.Code != http.StatusNotFound {
		t.Errorf("repeated complete: status = %d, want 404", w.Code)
	}

	if w := postJSON(t, h, "/tasks/complete", `{"task_id":"nope"}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
	if w := postJSON(t, h, "/tasks/complete", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing task_id: status = %d, want 400", w.Code)
	}

	events := rec.Tail(0)
	if len(events) != 1 || events[0].Name != "nudge_completed" {
		t.Errorf("expected one nudge_completed event, got %v", events)
	}
}

func TestDismissTaskHandler(t *testing.T) {
	c, _ := newTestCatalog(t)
	rec := analytics.NewRecorder(16)
	h := DismissTaskHandler(c, rec)

	if w := postJSON(t, h, "/tasks/dismiss", `{"task_id":"steps-1k"}`); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	task, _ := c.Get("steps-1k")
	if task.Ignores != 1 {
		t.Errorf("ignores = %d, want 1", task.Ignores)
	}

	// unlike complete, dismiss stays valid on repeat
	if w := postJSON(t, h, "/tasks/dismiss", `{"task_id":"steps-1k"}`); w.Code != http.StatusOK {
		t.Errorf("repeat dismiss: status = %d, want 200", w.Code)
	}
	if w := postJSON(t, h, "/tasks/dismiss", `{"task_id":"nope"}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
}

func TestSetIgnoresHandler(t *testing.T) {
	c, _ := newTestCatalog(t)
	h := SetIgnoresHandler(c)

	if w := postJSON(t, h, "/admin/ignores", `{"task_id":"water-500","count":3}`); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	task, _ := c.Get("water-500")
	if task.Ignores != 3 {
		t.Errorf("ignores = %d, want 3", task.Ignores)
	}

	if w := postJSON(t, h, "/admin/ignores", `{"task_id":"water-500","count":-1}`); w.Code != http.StatusBadRequest {
		t.Errorf("negative count: status = %d, want 400", w.Code)
	}
}

func TestListTasksHandler(t *testing.T) {
	c, _ := newTestCatalog(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	ListTasksHandler(c)(w, req)

	var tasks []Task
	if err := json.NewDecoder(w.Body).Decode(&tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 7 {
		t.Errorf("got %d tasks, want 7", len(tasks))
	}
}
