// Package stubs is the mock room directory. It stands in for a real
// directory and message service behind the same interfaces.
package stubs

import (
	"context"
	"strings"

	"catalyst/internal/content"
	"catalyst/internal/models"
)

const defaultRoomID = "1"

var Rooms = []models.Room{
	{ID: "1", Name: "General Chat", LastMessage: "Welcome to Catalyst!", Timestamp: "2m ago", UnreadCount: 2},
	{ID: "2", Name: "Tech Talk", LastMessage: "Anyone tried the new React features?", Timestamp: "1h ago"},
	{ID: "3", Name: "Random", LastMessage: "Good morning everyone! ☀️", Timestamp: "3h ago", UnreadCount: 1},
}

var WelcomeMessages = []models.Message{
	{ID: "1", Text: "Welcome to the chat room! 🎉", Sender: "System", Timestamp: "10:30 AM"},
	{ID: "2", Text: "Hello everyone! Excited to be here.", Sender: "user@example.com", Timestamp: "10:32 AM"},
	{ID: "3", Text: "Hey! Welcome to our community. Feel free to ask any questions.", Sender: "admin@catalyst.com", Timestamp: "10:33 AM"},
}

// Directory serves the hardcoded rooms to every user.
type Directory struct{}

func NewDirectory() *Directory {
	return &Directory{}
}

func (d *Directory) ListRooms(ctx context.Context, user models.User) ([]models.Room, error) {
	rooms := make([]models.Room, len(Rooms))
	copy(rooms, Rooms)
	return rooms, nil
}

// RoomName resolves a room id. An empty id means the default room.
func (d *Directory) RoomName(ctx context.Context, roomID string) string {
	if roomID == "" {
		roomID = defaultRoomID
	}
	for _, r := range Rooms {
		if r.ID == roomID {
			return r.Name
		}
	}
	return "Unknown Room"
}

// SeedMessages returns a fresh copy of the welcome sequence. The sequence
// is the same for every room.
func (d *Directory) SeedMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	msgs := make([]models.Message, len(WelcomeMessages))
	copy(msgs, WelcomeMessages)
	return msgs, nil
}

// CreateRoom only acknowledges the request. Nothing is created.
func (d *Directory) CreateRoom(ctx context.Context, name string) (models.Toast, error) {
	name = strings.TrimSpace(content.Sanitize(name))
	if name == "" {
		return models.Toast{}, models.NewValidationError("roomKey", "Error", "Please enter a room name")
	}
	return models.NewToast("Room Created", "Created room: "+name), nil
}

// JoinRoom only acknowledges the request. Nothing is joined.
func (d *Directory) JoinRoom(ctx context.Context, key string) (models.Toast, error) {
	key = strings.TrimSpace(content.Sanitize(key))
	if key == "" {
		return models.Toast{}, models.NewValidationError("roomKey", "Error", "Please enter a room key")
	}
	return models.NewToast("Joined Room", "Joined room: "+key), nil
}
