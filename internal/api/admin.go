// Package api is the JSON admin API served on the admin address.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"catalyst/internal/logx"
	"catalyst/internal/models"
	"catalyst/internal/storage"
)

type RoomLister interface {
	ListRooms(ctx context.Context, user models.User) ([]models.Room, error)
}

type DeviceLister interface {
	ListDevices() ([]storage.Device, error)
}

type AdminHandler struct {
	rooms   RoomLister
	devices DeviceLister
}

func NewAdminHandler(rooms RoomLister, devices DeviceLister) *AdminHandler {
	return &AdminHandler{rooms: rooms, devices: devices}
}

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RoomsResponse struct {
	APIResponse
	Rooms []models.Room `json:"rooms"`
}

type DeviceInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

type DevicesResponse struct {
	APIResponse
	Count   int          `json:"count"`
	Devices []DeviceInfo `json:"devices"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error(err, "failed to encode admin response")
	}
}

// RoomsHandler lists the room directory as every user sees it.
func (h *AdminHandler) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context(), models.User{})
	if err != nil {
		logx.Error(err, "failed to list rooms")
		writeJSON(w, http.StatusInternalServerError, APIResponse{Message: "Failed to list rooms"})
		return
	}

	writeJSON(w, http.StatusOK, RoomsResponse{
		APIResponse: APIResponse{Success: true},
		Rooms:       rooms,
	})
}

func (h *AdminHandler) DevicesHandler(w http.ResponseWriter, r *http.Request) {
	devices, err := h.devices.ListDevices()
	if err != nil {
		logx.Error(err, "failed to list devices")
		writeJSON(w, http.StatusInternalServerError, APIResponse{Message: "Failed to list devices"})
		return
	}

	resp := DevicesResponse{
		APIResponse: APIResponse{Success: true},
		Count:       len(devices),
		Devices:     make([]DeviceInfo, 0, len(devices)),
	}
	for _, d := range devices {
		resp.Devices = append(resp.Devices, DeviceInfo{ID: d.ID, CreatedAt: d.CreatedAt, LastSeen: d.LastSeen})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "ok"})
}
