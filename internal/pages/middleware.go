package pages

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"catalyst/internal/models"
	"catalyst/internal/storage"

	"github.com/google/uuid"
)

// DeviceCookie identifies the browser. It scopes the durable key-value
// store the same way an origin scopes browser local storage.
const DeviceCookie = "device"

const deviceCookieMaxAge = 400 * 24 * 60 * 60

type ctxKey int

const (
	deviceKey ctxKey = iota
	userKey
)

func DeviceFrom(ctx context.Context) storage.Device {
	d, _ := ctx.Value(deviceKey).(storage.Device)
	return d
}

func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// DeviceMiddleware resolves the device cookie, issuing a new one when it
// is missing or malformed, and records the visit.
func (p *Pages) DeviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var deviceID string
		if c, err := r.Cookie(DeviceCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				deviceID = c.Value
			}
		}

		if deviceID == "" {
			deviceID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     DeviceCookie,
				Value:    deviceID,
				Path:     "/",
				MaxAge:   deviceCookieMaxAge,
				HttpOnly: true,
				Secure:   p.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		device, err := p.devices.TouchDevice(deviceID, p.now())
		if err != nil {
			p.serverError(w, r, err, "failed to register device")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), deviceKey, device)))
	})
}

// RequireSession sends visitors without a persisted user to the login page.
func (p *Pages) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := p.sessions.For(DeviceFrom(r.Context()).ID).Load()
		if errors.Is(err, models.ErrMissingSession) {
			p.metrics.RecordGuardRedirect(section(r.URL.Path))
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		if err != nil {
			p.serverError(w, r, err, "failed to load session")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// section keeps the first path segment so metric labels stay bounded.
func section(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return "/" + path
}
