package analytics

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Envelope is what we store with every event.
type Envelope struct {
	SessionID    string `json:"session_id,omitempty"`
	Platform     string `json:"platform"`
	AppVersion   string `json:"app_version,omitempty"`
	DeviceLocale string `json:"device_locale,omitempty"`
}

// FromRequest extracts event envelope fields from request.
// Backend-trustable fields only.
func FromRequest(r *http.Request) Envelope {
	platform := strings.TrimSpace(r.Header.Get("X-Platform"))
	if platform == "" {
		platform = "unknown"
	} else {
		platform = strings.ToLower(platform)
		if platform != "ios" && platform != "android" && platform != "web" {
			platform = "unknown"
		}
	}

	appVer := strings.TrimSpace(r.Header.Get("X-App-Version"))
	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	sessionID := strings.TrimSpace(r.Header.Get("X-Session-Id"))

	return Envelope{
		SessionID:    sessionID,
		Platform:     platform,
		AppVersion:   appVer,
		DeviceLocale: locale,
	}
}

// Event is one recorded product event.
type Event struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Time     time.Time      `json:"time"`
	Envelope Envelope       `json:"envelope"`
	Props    map[string]any `json:"props,omitempty"`
}

// Recorder keeps the most recent events in memory. There is no durable sink;
// the buffer is capped and the oldest events fall off.
type Recorder struct {
	mu     sync.Mutex
	cap    int
	events []Event
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	return &Recorder{cap: capacity}
}

// Log records one event. Never breaks the core flow; empty names are dropped.
func (rec *Recorder) Log(env Envelope, name string, props map[string]any) {
	if name == "" {
		return
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.events = append(rec.events, Event{
		ID:       uuid.NewString(),
		Name:     name,
		Time:     time.Now().UTC(),
		Envelope: env,
		Props:    props,
	})
	if len(rec.events) > rec.cap {
		rec.events = rec.events[len(rec.events)-rec.cap:]
	}
}

// Tail returns up to n most recent events, oldest first.
func (rec *Recorder) Tail(n int) []Event {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if n <= 0 || n > len(rec.events) {
		n = len(rec.events)
	}
	out := make([]Event, n)
	copy(out, rec.events[len(rec.events)-n:])
	return out
}

// EventsHandler exposes the event tail for inspection.
func EventsHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rec.Tail(100))
	}
}
