package models

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrMissingSession   = errors.New("no session")
	ErrDuplicateMessage = errors.New("duplicate message id")
)

// User is the signed-in identity. Email is the unique identity,
// Avatar is an optional data URI.
type User struct {
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Initial returns the upper-cased first letter used when there is no avatar image.
func (u User) Initial() string {
	return Initial(u.Email)
}

// Room is a chat room summary shown on the dashboard.
type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LastMessage string `json:"lastMessage,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	UnreadCount int    `json:"unreadCount,omitempty"`
}

// UnreadBadge renders the unread counter. Empty means no badge.
func (r Room) UnreadBadge() string {
	switch {
	case r.UnreadCount <= 0:
		return ""
	case r.UnreadCount > 9:
		return "9+"
	default:
		return fmt.Sprintf("%d", r.UnreadCount)
	}
}

// Message is a single entry of a room's message log.
type Message struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	Sender       string `json:"sender"`
	Timestamp    string `json:"timestamp"`
	IsOwnMessage bool   `json:"isOwnMessage"`
	Avatar       string `json:"avatar,omitempty"`
}

func (m Message) Initial() string {
	return Initial(m.Sender)
}

type Variant string

const (
	VariantNormal      Variant = "normal"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient user-facing notification.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

func NewToast(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: VariantNormal}
}

func NewErrorToast(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: VariantDestructive}
}

// ValidationError reports an empty required field. Title and Message
// are shown to the user as a destructive toast.
type ValidationError struct {
	Field   string
	Title   string
	Message string
}

func NewValidationError(field, title, message string) *ValidationError {
	return &ValidationError{Field: field, Title: title, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Toast converts the error into the notification shown for it.
func (e *ValidationError) Toast() Toast {
	return NewErrorToast(e.Title, e.Message)
}

// Initial returns the first rune of s in upper case.
func Initial(s string) string {
	for _, r := range s {
		return string(unicode.ToUpper(r))
	}
	return ""
}
