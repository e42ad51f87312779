package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"catalyst/internal/models"

	"github.com/google/uuid"
)

// EnhancementMarker is appended to a draft by ImproveMessage.
const EnhancementMarker = " ✨ (AI Enhanced)"

// TimestampLayout renders send times as hours and minutes, e.g. "03:04 PM".
const TimestampLayout = "03:04 PM"

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateSending State = "sending"
)

type Config struct {
	ID    string
	Name  string
	Seed  []models.Message
	Now   func() time.Time
	NewID func() string
}

// Room is the state of one mounted chat room page: the message log,
// the draft in the input field and the user it was mounted for.
type Room struct {
	ID   string
	Name string

	log   *Log
	seed  []models.Message
	user  *models.User
	draft string
	state State
	now   func() time.Time
	newID func() string

	mux sync.Mutex
}

// View is a snapshot used for rendering.
type View struct {
	RoomID   string
	Name     string
	User     models.User
	Messages []models.Message
	Draft    string
	State    State
}

func New(config Config) *Room {
	r := &Room{
		ID:    config.ID,
		Name:  config.Name,
		log:   NewLog(),
		seed:  config.Seed,
		state: StateLoading,
		now:   config.Now,
		newID: config.NewID,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	return r
}

// Mount resolves the session user and seeds the log with the welcome
// sequence. Seeded messages are owned by the user iff the sender is the
// user's email. Mounting twice is a no-op.
func (r *Room) Mount(user models.User) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	if r.state != StateLoading {
		return nil
	}
	for _, m := range r.seed {
		m.IsOwnMessage = m.Sender == user.Email
		if err := r.log.Append(m); err != nil {
			return fmt.Errorf("failed to seed room %s: %w", r.ID, err)
		}
	}
	r.user = &user
	r.state = StateReady
	return nil
}

// SendMessage submits the input field holding text. Whitespace-only text
// or a room without a user leaves everything as it was. Otherwise the
// message is appended as the user's own and the input is cleared.
// The result reports whether the log grew, i.e. whether to scroll to the
// latest message.
func (r *Room) SendMessage(text string) bool {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.draft = text
	if strings.TrimSpace(text) == "" || r.user == nil {
		return false
	}

	r.state = StateSending
	defer func() { r.state = StateReady }()

	msg := models.Message{
		ID:           r.newID(),
		Text:         text,
		Sender:       r.user.Email,
		Timestamp:    r.now().Format(TimestampLayout),
		IsOwnMessage: true,
		Avatar:       r.user.Avatar,
	}
	if err := r.log.Append(msg); err != nil {
		return false
	}
	r.draft = ""
	return true
}

// ImproveMessage is a stand-in for a text enhancement service: it appends
// EnhancementMarker to the draft. The log is never touched.
func (r *Room) ImproveMessage(text string) (models.Toast, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.draft = text
	if strings.TrimSpace(text) == "" {
		return models.Toast{}, models.NewValidationError("message", "Nothing to improve", "Please type a message first")
	}

	r.draft = text + EnhancementMarker
	return models.NewToast("Message Improved", "AI has enhanced your message!"), nil
}

// Translate only notifies. Message content is never altered.
func (r *Room) Translate(messageID string) models.Toast {
	return models.NewToast("Translation", "Message translated to your preferred language")
}

// DeleteRoom only notifies. The caller navigates back to the dashboard
// and drops this state; the directory is untouched.
func (r *Room) DeleteRoom() models.Toast {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.state = StateLoading
	return models.NewErrorToast("Room Deleted", "This chat room has been deleted")
}

func (r *Room) State() State {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.state
}

func (r *Room) Draft() string {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.draft
}

// SetUser refreshes the user snapshot, e.g. after an avatar change.
// Messages already in the log keep the values they were created with.
func (r *Room) SetUser(user models.User) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.user != nil {
		r.user = &user
	}
}

func (r *Room) View() View {
	r.mux.Lock()
	defer r.mux.Unlock()

	v := View{
		RoomID:   r.ID,
		Name:     r.Name,
		Messages: r.log.Messages(),
		Draft:    r.draft,
		State:    r.state,
	}
	if r.user != nil {
		v.User = *r.user
	}
	return v
}
