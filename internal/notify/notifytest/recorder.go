// Package notifytest provides an in-memory notifier for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/trogers1052/trading-position-modeler/internal/models"
	"github.com/trogers1052/trading-position-modeler/internal/notify"
)

var _ notify.Notifier = (*Recorder)(nil)

// Recorder keeps notifications in memory
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

// Entry is one recorded notification
type Entry struct {
	Level   string
	Message string
}

func (r *Recorder) Success(_ context.Context, message string) {
	r.add(models.NotificationSuccess, message)
}
func (r *Recorder) Warn(_ context.Context, message string) {
	r.add(models.NotificationWarning, message)
}
func (r *Recorder) Error(_ context.Context, message string) { r.add(models.NotificationError, message) }
func (r *Recorder) Info(_ context.Context, message string)  { r.add(models.NotificationInfo, message) }

func (r *Recorder) add(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Level: level, Message: message})
}

// Messages returns the recorded messages of a level
func (r *Recorder) Messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.Entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}
