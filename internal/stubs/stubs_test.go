package stubs

import (
	"context"
	"testing"

	"catalyst/internal/models"

	"github.com/stretchr/testify/require"
)

func TestDirectory_ListRooms(t *testing.T) {
	d := NewDirectory()
	ctx := context.Background()

	rooms, err := d.ListRooms(ctx, models.User{Email: "a@b.com"})
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	require.Equal(t, []string{"1", "2", "3"}, []string{rooms[0].ID, rooms[1].ID, rooms[2].ID})

	// Callers get a copy
	rooms[0].Name = "changed"
	again, _ := d.ListRooms(ctx, models.User{Email: "other@b.com"})
	require.Equal(t, "General Chat", again[0].Name)
}

func TestDirectory_RoomName(t *testing.T) {
	d := NewDirectory()
	ctx := context.Background()

	tests := []struct {
		id   string
		want string
	}{
		{"1", "General Chat"},
		{"2", "Tech Talk"},
		{"3", "Random"},
		{"", "General Chat"},
		{"42", "Unknown Room"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, d.RoomName(ctx, tt.id), "room %q", tt.id)
	}
}

func TestDirectory_SeedMessages(t *testing.T) {
	d := NewDirectory()

	msgs, err := d.SeedMessages(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "System", msgs[0].Sender)

	msgs[0].Text = "mutated"
	require.Equal(t, "Welcome to the chat room! 🎉", WelcomeMessages[0].Text)
}

func TestDirectory_CreateJoin(t *testing.T) {
	d := NewDirectory()
	ctx := context.Background()

	toast, err := d.CreateRoom(ctx, "  Book Club ")
	require.NoError(t, err)
	require.Equal(t, models.NewToast("Room Created", "Created room: Book Club"), toast)

	toast, err = d.JoinRoom(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, models.NewToast("Joined Room", "Joined room: abc123"), toast)

	_, err = d.CreateRoom(ctx, "   ")
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = d.JoinRoom(ctx, "")
	require.ErrorIs(t, err, models.ErrValidation)

	// Markup is dropped before the emptiness check
	toast, err = d.JoinRoom(ctx, "<b>vip</b>")
	require.NoError(t, err)
	require.Equal(t, "Joined room: vip", toast.Description)

	for _, markupOnly := range []string{"<x>", " <i></i> "} {
		_, err = d.JoinRoom(ctx, markupOnly)
		require.ErrorIs(t, err, models.ErrValidation, "join %q", markupOnly)
		_, err = d.CreateRoom(ctx, markupOnly)
		require.ErrorIs(t, err, models.ErrValidation, "create %q", markupOnly)
	}

	// Stub actions never change the directory
	rooms, _ := d.ListRooms(ctx, models.User{})
	require.Len(t, rooms, 3)
}
