package avatar

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"catalyst/internal/models"

	"github.com/stretchr/testify/require"
)

// 1x1 PNG
const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func pngBytes(t *testing.T) []byte {
	t.Helper()
	b, err := base64.StdEncoding.DecodeString(pngBase64)
	require.NoError(t, err)
	return b
}

func TestDataURI(t *testing.T) {
	png := pngBytes(t)

	tests := []struct {
		name     string
		content  []byte
		declared string
		want     string
	}{
		{"sniffed", png, "", "data:image/png;base64," + pngBase64},
		{"sniffed wins over declared", png, "image/gif", "data:image/png;base64," + pngBase64},
		{"declared", []byte("hello"), "text/plain", "data:text/plain;base64,aGVsbG8="},
		{"fallback", []byte("hello"), "", "data:application/octet-stream;base64,aGVsbG8="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DataURI(tt.content, tt.declared))
		})
	}
}

func TestSlot_LatestWins(t *testing.T) {
	var s Slot
	first := s.Begin(context.Background())
	second := s.Begin(context.Background())

	require.Error(t, first.Ctx.Err(), "first read is cancelled when superseded")

	applied, err := s.Commit(first, func() error {
		t.Fatal("stale result applied")
		return nil
	})
	require.NoError(t, err)
	require.False(t, applied)

	ran := false
	applied, err = s.Commit(second, func() error { ran = true; return nil })
	require.NoError(t, err)
	require.True(t, applied)
	require.True(t, ran)
}

func newReader(t *testing.T, maxBytes int64) *Reader {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewReader(ctx, Config{MaxBytes: maxBytes, SlotTTL: time.Minute})
}

func TestReader_Read(t *testing.T) {
	r := newReader(t, 1024)

	var got string
	err := r.Read(context.Background(), "dev1", bytes.NewReader(pngBytes(t)), "image/png", func(uri string) error {
		got = uri
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,"+pngBase64, got)
}

func TestReader_TooLarge(t *testing.T) {
	r := newReader(t, 4)

	err := r.Read(context.Background(), "dev1", strings.NewReader("12345"), "", func(string) error {
		t.Fatal("apply must not run")
		return nil
	})
	require.ErrorIs(t, err, models.ErrValidation)
}

// blockingReader returns its payload only once released.
type blockingReader struct {
	release chan struct{}
	r       io.Reader
}

func (b *blockingReader) Read(p []byte) (int, error) {
	<-b.release
	return b.r.Read(p)
}

func TestReader_Superseded(t *testing.T) {
	r := newReader(t, 1024)

	slow := &blockingReader{release: make(chan struct{}), r: strings.NewReader("old")}
	slowErr := make(chan error, 1)
	var applied []string
	go func() {
		slowErr <- r.Read(context.Background(), "dev1", slow, "text/plain", func(uri string) error {
			applied = append(applied, uri)
			return nil
		})
	}()

	// Wait until the slow read holds the slot.
	require.Eventually(t, func() bool {
		s := r.slot("dev1")
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.gen == 1
	}, time.Second, 5*time.Millisecond)

	err := r.Read(context.Background(), "dev1", strings.NewReader("new"), "text/plain", func(uri string) error {
		applied = append(applied, uri)
		return nil
	})
	require.NoError(t, err)

	require.ErrorIs(t, <-slowErr, ErrSuperseded)
	close(slow.release)

	require.Equal(t, []string{"data:text/plain;base64,bmV3"}, applied)
}

func TestReader_SlotEvictedMidRead(t *testing.T) {
	r := newReader(t, 1024)

	slow := &blockingReader{release: make(chan struct{}), r: strings.NewReader("old")}
	slowErr := make(chan error, 1)
	var mu sync.Mutex
	var applied []string
	record := func(uri string) error {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, uri)
		return nil
	}
	go func() {
		slowErr <- r.Read(context.Background(), "dev1", slow, "text/plain", record)
	}()

	require.Eventually(t, func() bool {
		s := r.slot("dev1")
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.gen == 1
	}, time.Second, 5*time.Millisecond)

	// The slot expires while the slow read is still running.
	tx := r.slots.Lock()
	_ = tx.Del("dev1")
	tx.Unlock()

	require.NoError(t, r.Read(context.Background(), "dev1", strings.NewReader("new"), "text/plain", record))

	close(slow.release)
	require.ErrorIs(t, <-slowErr, ErrSuperseded)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"data:text/plain;base64,bmV3"}, applied)
}

func TestReader_SlotRestoredAfterEviction(t *testing.T) {
	r := newReader(t, 1024)

	s := r.slot("dev1")
	tx := r.slots.Lock()
	_ = tx.Del("dev1")
	tx.Unlock()

	require.True(t, r.owns("dev1", s))
	require.Same(t, s, r.slot("dev1"))
	require.False(t, r.owns("dev1", &Slot{}))
}

func TestTooLargeError(t *testing.T) {
	err := TooLargeError(2048)
	require.ErrorIs(t, err, models.ErrValidation)
	require.Equal(t, models.NewErrorToast("Avatar too large", "Please choose an image under 2 KB"), err.Toast())
}

func TestReader_DevicesIndependent(t *testing.T) {
	r := newReader(t, 1024)

	for _, dev := range []string{"dev1", "dev2"} {
		err := r.Read(context.Background(), dev, strings.NewReader("x"), "text/plain", func(string) error { return nil })
		require.NoError(t, err)
	}
}
