// Package notify queues toasts per device until the next rendered page
// picks them up.
package notify

import (
	"context"
	"time"

	"catalyst/internal/models"

	"github.com/c-pro/geche"
)

type Queue struct {
	pending *geche.Locker[string, []models.Toast]
}

// NewQueue creates a queue whose undelivered toasts expire after ttl.
func NewQueue(ctx context.Context, ttl time.Duration) *Queue {
	return &Queue{
		pending: geche.NewLocker[string, []models.Toast](geche.NewMapTTLCache[string, []models.Toast](ctx, ttl, time.Minute)),
	}
}

func (q *Queue) Push(deviceID string, toasts ...models.Toast) {
	if len(toasts) == 0 {
		return
	}
	tx := q.pending.Lock()
	defer tx.Unlock()

	current, _ := tx.Get(deviceID)
	tx.Set(deviceID, append(current, toasts...))
}

// Drain returns and forgets the pending toasts of the device, oldest first.
func (q *Queue) Drain(deviceID string) []models.Toast {
	tx := q.pending.Lock()
	defer tx.Unlock()

	toasts, err := tx.Get(deviceID)
	if err != nil || len(toasts) == 0 {
		return nil
	}
	tx.Set(deviceID, nil)
	return toasts
}
