// Package alert keeps a small ring of dismissible notices for the UI.
// Sync failures land here instead of blocking or rolling back anything.
package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxAlerts = 50

// Alert is one dismissible notice.
type Alert struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Date      string    `json:"date,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Center holds recent alerts, newest first, capped at maxAlerts.
type Center struct {
	mu     sync.Mutex
	alerts []Alert
}

func NewCenter() *Center {
	return &Center{}
}

// SyncFailed implements the dispatcher's Notifier.
func (c *Center) SyncFailed(date string, err error) {
	c.Push(date, fmt.Sprintf("Saving %s failed: %v. Your changes are kept locally and will be retried on the next change.", date, err))
}

// Push records a notice.
func (c *Center) Push(date, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.alerts = append([]Alert{{
		ID:        uuid.New().String(),
		Message:   message,
		Date:      date,
		CreatedAt: time.Now(),
	}}, c.alerts...)

	if len(c.alerts) > maxAlerts {
		c.alerts = c.alerts[:maxAlerts]
	}
}

// List returns current alerts, newest first.
func (c *Center) List() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Alert, len(c.alerts))
	copy(out, c.alerts)
	return out
}

// Dismiss removes the alert with the given id. Unknown ids are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, a := range c.alerts {
		if a.ID == id {
			c.alerts = append(c.alerts[:i], c.alerts[i+1:]...)
			return
		}
	}
}
