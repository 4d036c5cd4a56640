package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUpdateMetricsHandler(t *testing.T) {
	s := NewStore()
	h := UpdateMetricsHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/metrics", strings.NewReader(`{"water_ml":500,"sleep_hours":6.5}`))
	w := httptest.NewRecorder()
	h(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	var got Snapshot
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := Snapshot{WaterML: 500, SleepHours: 6.5, Mood1to5: 3}
	if got != want {
		t.Errorf("merged snapshot = %+v, want %+v", got, want)
	}
}

func TestUpdateMetricsHandlerRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"water_ml":`},
		{"non-numeric field", `{"water_ml":"lots"}`},
		{"negative water", `{"water_ml":-5}`},
		{"mood out of range", `{"mood_1to5":9}`},
		{"sleep out of range", `{"sleep_hours":30}`},
		{"screen out of range", `{"screen_time_min":2000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			req := httptest.NewRequest(http.MethodPost, "/metrics", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			UpdateMetricsHandler(s)(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if s.Current() != Baseline() {
				t.Error("rejected update must not touch the store")
			}
		})
	}
}

func TestGetMetricsHandler(t *testing.T) {
	s := NewStore()
	s.Set(Snapshot{WaterML: 900, Steps: 4000, SleepHours: 6, ScreenTimeMin: 150, Mood1to5: 2})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	GetMetricsHandler(s)(w, req)

	var got Snapshot
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got != s.Current() {
		t.Errorf("got %+v, want %+v", got, s.Current())
	}
}

func TestSetMetricsHandler(t *testing.T) {
	s := NewStore()

	req := httptest.NewRequest(http.MethodPut, "/admin/metrics", strings.NewReader(
		`{"water_ml":900,"steps":4000,"sleep_hours":6,"screen_time_min":150,"mood_1to5":2}`))
	w := httptest.NewRecorder()
	SetMetricsHandler(s)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	want := Snapshot{WaterML: 900, Steps: 4000, SleepHours: 6, ScreenTimeMin: 150, Mood1to5: 2}
	if got := s.Current(); got != want {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}
}
