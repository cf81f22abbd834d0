package views

import "sync"

// Level is the severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one message raised by a view
type Notification struct {
	Level   Level
	Message string
}

// Recorder is a Notifier that keeps every notification in order
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// Success records a success notification
func (r *Recorder) Success(message string) { r.add(LevelSuccess, message) }

// Error records an error notification
func (r *Recorder) Error(message string) { r.add(LevelError, message) }

// Info records an info notification
func (r *Recorder) Info(message string) { r.add(LevelInfo, message) }

// Notifications returns a copy of the recorded notifications
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// HasErrors reports whether any error notification was recorded
func (r *Recorder) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}
