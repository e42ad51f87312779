package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"catalyst/internal/models"

	"github.com/c-pro/geche"
)

// ErrSuperseded is returned when a newer read started before this one finished.
var ErrSuperseded = errors.New("avatar read superseded")

type Config struct {
	MaxBytes int64
	SlotTTL  time.Duration
}

// Reader converts uploaded files into data URIs, one slot per device.
type Reader struct {
	maxBytes int64
	slots    *geche.Locker[string, *Slot]
}

func NewReader(ctx context.Context, config Config) *Reader {
	return &Reader{
		maxBytes: config.MaxBytes,
		slots:    geche.NewLocker[string, *Slot](geche.NewMapTTLCache[string, *Slot](ctx, config.SlotTTL, time.Minute)),
	}
}

func (r *Reader) slot(deviceID string) *Slot {
	tx := r.slots.Lock()
	defer tx.Unlock()

	s, err := tx.Get(deviceID)
	if err != nil {
		s = &Slot{}
	}
	// Setting again refreshes the TTL.
	tx.Set(deviceID, s)
	return s
}

// owns reports whether s is still the slot of the device. A slot evicted
// while its read was in flight is put back unless a newer one replaced it.
func (r *Reader) owns(deviceID string, s *Slot) bool {
	tx := r.slots.Lock()
	defer tx.Unlock()

	current, err := tx.Get(deviceID)
	if err != nil {
		tx.Set(deviceID, s)
		return true
	}
	return current == s
}

// TooLargeError is the validation error for files over maxBytes.
func TooLargeError(maxBytes int64) *models.ValidationError {
	return models.NewValidationError("avatar", "Avatar too large",
		fmt.Sprintf("Please choose an image under %d KB", maxBytes/1024))
}

type readResult struct {
	dataURI string
	err     error
}

// Read converts file into a data URI and hands it to apply, unless a newer
// read for the same device was started meanwhile.
func (r *Reader) Read(ctx context.Context, deviceID string, file io.Reader, declaredType string, apply func(dataURI string) error) error {
	s := r.slot(deviceID)
	ticket := s.Begin(ctx)

	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(file, r.maxBytes+1))
		switch {
		case err != nil:
			done <- readResult{err: fmt.Errorf("failed to read avatar: %w", err)}
		case int64(len(data)) > r.maxBytes:
			done <- readResult{err: TooLargeError(r.maxBytes)}
		default:
			done <- readResult{dataURI: DataURI(data, declaredType)}
		}
	}()

	select {
	case <-ticket.Ctx.Done():
		if ctx.Err() != nil {
			s.Abandon(ticket)
			return ctx.Err()
		}
		return ErrSuperseded
	case res := <-done:
		if res.err != nil {
			s.Abandon(ticket)
			return res.err
		}
		if !r.owns(deviceID, s) {
			s.Abandon(ticket)
			return ErrSuperseded
		}
		applied, err := s.Commit(ticket, func() error { return apply(res.dataURI) })
		if err != nil {
			return err
		}
		if !applied {
			return ErrSuperseded
		}
		return nil
	}
}
