package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"catalyst/internal/models"

	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) *BboltStorage {
	t.Helper()
	store, err := NewBboltStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorage(t *testing.T) {
	store := newStorage(t)

	t.Run("LocalStorage", func(t *testing.T) {
		_, err := store.GetItem("dev1", "catalyst_user")
		require.True(t, errors.Is(err, models.ErrNotFound))

		require.NoError(t, store.SetItem("dev1", "catalyst_user", []byte(`{"email":"a@b.com"}`)))
		value, err := store.GetItem("dev1", "catalyst_user")
		require.NoError(t, err)
		require.Equal(t, `{"email":"a@b.com"}`, string(value))

		// Replace
		require.NoError(t, store.SetItem("dev1", "catalyst_user", []byte(`{"email":"c@d.com"}`)))
		value, err = store.GetItem("dev1", "catalyst_user")
		require.NoError(t, err)
		require.Equal(t, `{"email":"c@d.com"}`, string(value))

		// Devices are isolated
		_, err = store.GetItem("dev2", "catalyst_user")
		require.ErrorIs(t, err, models.ErrNotFound)

		require.NoError(t, store.RemoveItem("dev1", "catalyst_user"))
		_, err = store.GetItem("dev1", "catalyst_user")
		require.ErrorIs(t, err, models.ErrNotFound)

		// Removing twice or for an unknown device is fine
		require.NoError(t, store.RemoveItem("dev1", "catalyst_user"))
		require.NoError(t, store.RemoveItem("nobody", "catalyst_user"))
	})

	t.Run("SetItemRequiresDevice", func(t *testing.T) {
		require.Error(t, store.SetItem("", "k", []byte("v")))
	})

	t.Run("Devices", func(t *testing.T) {
		first := time.Unix(1700000000, 0)
		later := first.Add(time.Hour)

		d, err := store.TouchDevice("dev1", first)
		require.NoError(t, err)
		require.Equal(t, first, d.CreatedAt)
		require.Equal(t, first, d.LastSeen)

		d, err = store.TouchDevice("dev1", later)
		require.NoError(t, err)
		require.Equal(t, first, d.CreatedAt, "CreatedAt must survive touches")
		require.Equal(t, later, d.LastSeen)

		got, err := store.GetDevice("dev1")
		require.NoError(t, err)
		require.Equal(t, d, got)

		_, err = store.GetDevice("missing")
		require.ErrorIs(t, err, models.ErrNotFound)

		_, err = store.TouchDevice("dev2", later)
		require.NoError(t, err)
		devices, err := store.ListDevices()
		require.NoError(t, err)
		require.Len(t, devices, 2)
	})
}

func TestStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "durable.db")

	store, err := NewBboltStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.SetItem("dev1", "catalyst_user", []byte(`{"email":"a@b.com"}`)))
	require.NoError(t, store.Close())

	store, err = NewBboltStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	value, err := store.GetItem("dev1", "catalyst_user")
	require.NoError(t, err)
	require.Equal(t, `{"email":"a@b.com"}`, string(value))
}
