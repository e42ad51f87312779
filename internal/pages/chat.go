package pages

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"catalyst/internal/chat"
	"catalyst/internal/models"
	"catalyst/internal/web"

	"github.com/go-chi/chi/v5"
)

type chatContent struct {
	RoomID   string
	Name     string
	Messages []models.Message
	Draft    string
	State    chat.State
}

func chatKey(deviceID, roomID string) string {
	return deviceID + "/" + roomID
}

func chatPath(roomID string) string {
	return "/chat/" + url.PathEscape(roomID)
}

// mounted returns the room state of this device, mounting it when there
// is none or it was mounted for somebody else.
func (p *Pages) mounted(r *http.Request, roomID string) (*chat.Room, error) {
	user, _ := UserFrom(r.Context())
	key := chatKey(DeviceFrom(r.Context()).ID, roomID)

	tx := p.chats.Lock()
	defer tx.Unlock()

	if room, err := tx.Get(key); err == nil && room.View().User.Email == user.Email {
		room.SetUser(user)
		tx.Set(key, room)
		return room, nil
	}

	seed, err := p.rooms.SeedMessages(r.Context(), roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed messages: %w", err)
	}
	room := chat.New(chat.Config{
		ID:   roomID,
		Name: p.rooms.RoomName(r.Context(), roomID),
		Seed: seed,
		Now:  p.now,
	})
	if err := room.Mount(user); err != nil {
		return nil, err
	}
	tx.Set(key, room)
	return room, nil
}

func (p *Pages) unmount(r *http.Request, roomID string) {
	tx := p.chats.Lock()
	defer tx.Unlock()
	_ = tx.Del(chatKey(DeviceFrom(r.Context()).ID, roomID))
}

func (p *Pages) renderChat(w http.ResponseWriter, r *http.Request, room *chat.Room, toasts ...models.Toast) {
	v := room.View()
	p.render(w, r, web.PageChat, v.Name, chatContent{
		RoomID:   v.RoomID,
		Name:     v.Name,
		Messages: v.Messages,
		Draft:    v.Draft,
		State:    v.State,
	}, toasts...)
}

// roomFor mounts the room named in the URL or writes an error.
func (p *Pages) roomFor(w http.ResponseWriter, r *http.Request) (*chat.Room, bool) {
	room, err := p.mounted(r, chi.URLParam(r, "roomId"))
	if err != nil {
		p.serverError(w, r, err, "failed to mount room")
		return nil, false
	}
	return room, true
}

// DefaultChat opens the default room.
func (p *Pages) DefaultChat(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, chatPath("1"), http.StatusFound)
}

func (p *Pages) ChatRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := p.roomFor(w, r)
	if !ok {
		return
	}
	p.renderChat(w, r, room)
}

// SendMessage appends the typed message. A blank message changes nothing
// and keeps the input as typed.
func (p *Pages) SendMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	room, ok := p.roomFor(w, r)
	if !ok {
		return
	}

	target := chatPath(room.ID)
	if room.SendMessage(r.PostFormValue("message")) {
		p.metrics.RecordMessageSent()
		target += "#latest"
	}
	p.redirect(w, r, target)
}

func (p *Pages) ImproveMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	room, ok := p.roomFor(w, r)
	if !ok {
		return
	}

	toast, err := room.ImproveMessage(r.PostFormValue("message"))
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		p.renderChat(w, r, room, verr.Toast())
		return
	}
	if err != nil {
		p.serverError(w, r, err, "failed to improve message")
		return
	}

	p.metrics.RecordStubAction("improve")
	p.redirect(w, r, chatPath(room.ID), toast)
}

func (p *Pages) Translate(w http.ResponseWriter, r *http.Request) {
	room, ok := p.roomFor(w, r)
	if !ok {
		return
	}

	toast := room.Translate(chi.URLParam(r, "messageId"))
	p.metrics.RecordStubAction("translate")
	p.redirect(w, r, chatPath(room.ID), toast)
}

// DeleteRoom notifies, forgets the room state and goes back to the
// dashboard. The room stays listed there.
func (p *Pages) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := p.roomFor(w, r)
	if !ok {
		return
	}

	toast := room.DeleteRoom()
	p.unmount(r, room.ID)
	p.metrics.RecordStubAction("delete_room")
	p.redirect(w, r, "/dashboard", toast)
}
