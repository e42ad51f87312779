package chat

import (
	"fmt"
	"sync"

	"catalyst/internal/models"
)

// Log is the ordered, append-only message list of one room.
type Log struct {
	messages []models.Message
	ids      map[string]struct{}

	mux sync.RWMutex
}

func NewLog() *Log {
	return &Log{ids: make(map[string]struct{})}
}

// Append adds m at the end. Ids are unique within a log.
func (l *Log) Append(m models.Message) error {
	l.mux.Lock()
	defer l.mux.Unlock()

	if _, ok := l.ids[m.ID]; ok {
		return fmt.Errorf("message %q: %w", m.ID, models.ErrDuplicateMessage)
	}
	l.ids[m.ID] = struct{}{}
	l.messages = append(l.messages, m)
	return nil
}

// Messages returns a copy of the log in insertion order.
func (l *Log) Messages() []models.Message {
	l.mux.RLock()
	defer l.mux.RUnlock()

	result := make([]models.Message, len(l.messages))
	copy(result, l.messages)
	return result
}

func (l *Log) Len() int {
	l.mux.RLock()
	defer l.mux.RUnlock()
	return len(l.messages)
}

func (l *Log) Get(id string) (models.Message, bool) {
	l.mux.RLock()
	defer l.mux.RUnlock()

	if _, ok := l.ids[id]; !ok {
		return models.Message{}, false
	}
	for _, m := range l.messages {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}
