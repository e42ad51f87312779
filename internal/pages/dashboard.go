package pages

import (
	"errors"
	"net/http"

	"catalyst/internal/models"
	"catalyst/internal/web"
)

type dashboardContent struct {
	Rooms   []models.Room
	RoomKey string
}

func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	p.renderDashboard(w, r, "")
}

// RoomAction handles the create and join buttons. Both only notify; the
// input is cleared on success and kept otherwise.
func (p *Pages) RoomAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	action := r.PostFormValue("action")
	roomKey := r.PostFormValue("roomKey")

	var (
		toast models.Toast
		err   error
	)
	switch action {
	case "create":
		toast, err = p.rooms.CreateRoom(r.Context(), roomKey)
	case "join":
		toast, err = p.rooms.JoinRoom(r.Context(), roomKey)
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		p.renderDashboard(w, r, roomKey, verr.Toast())
		return
	}
	if err != nil {
		p.serverError(w, r, err, "room action failed")
		return
	}

	p.metrics.RecordStubAction(action + "_room")
	p.renderDashboard(w, r, "", toast)
}

func (p *Pages) renderDashboard(w http.ResponseWriter, r *http.Request, roomKey string, toasts ...models.Toast) {
	user, _ := UserFrom(r.Context())
	rooms, err := p.rooms.ListRooms(r.Context(), user)
	if err != nil {
		p.serverError(w, r, err, "failed to list rooms")
		return
	}
	p.render(w, r, web.PageDashboard, "Dashboard", dashboardContent{Rooms: rooms, RoomKey: roomKey}, toasts...)
}
