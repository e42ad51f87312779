// Package pages implements the server-rendered pages: login, dashboard,
// chat room and profile.
package pages

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"catalyst/internal/auth"
	"catalyst/internal/avatar"
	"catalyst/internal/chat"
	"catalyst/internal/metrics"
	"catalyst/internal/models"
	"catalyst/internal/notify"
	"catalyst/internal/session"
	"catalyst/internal/storage"
	"catalyst/internal/stubs"
	"catalyst/internal/web"

	"github.com/c-pro/geche"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// DeviceStore registers browsers by their device cookie.
type DeviceStore interface {
	TouchDevice(deviceID string, now time.Time) (storage.Device, error)
}

type Deps struct {
	Devices  DeviceStore
	Sessions *session.Provider
	Auth     *auth.Authenticator
	Rooms    *stubs.Directory
	Toasts   *notify.Queue
	Avatars  *avatar.Reader
	Views    *web.Views
	Metrics  metrics.Recorder
	// LoginLimit wraps POST /login. Optional.
	LoginLimit func(http.Handler) http.Handler
}

type Config struct {
	// PageStateTTL bounds how long an idle chat room keeps its state.
	PageStateTTL   time.Duration
	MaxAvatarBytes int64
	SecureCookies  bool
	Now            func() time.Time
}

type Pages struct {
	devices    DeviceStore
	sessions   *session.Provider
	auth       *auth.Authenticator
	rooms      *stubs.Directory
	toasts     *notify.Queue
	avatars    *avatar.Reader
	views      *web.Views
	metrics    metrics.Recorder
	loginLimit func(http.Handler) http.Handler

	// mounted chat rooms by device and room id
	chats *geche.Locker[string, *chat.Room]

	maxAvatarBytes int64
	maxUploadBytes int64
	secureCookies  bool
	now            func() time.Time
}

func New(ctx context.Context, deps Deps, config Config) *Pages {
	p := &Pages{
		devices:        deps.Devices,
		sessions:       deps.Sessions,
		auth:           deps.Auth,
		rooms:          deps.Rooms,
		toasts:         deps.Toasts,
		avatars:        deps.Avatars,
		views:          deps.Views,
		metrics:        deps.Metrics,
		loginLimit:     deps.LoginLimit,
		chats:          geche.NewLocker[string, *chat.Room](geche.NewMapTTLCache[string, *chat.Room](ctx, config.PageStateTTL, time.Minute)),
		maxAvatarBytes: config.MaxAvatarBytes,
		maxUploadBytes: config.MaxAvatarBytes + multipartOverhead,
		secureCookies:  config.SecureCookies,
		now:            config.Now,
	}
	if p.metrics == nil {
		p.metrics = metrics.Nop{}
	}
	if p.loginLimit == nil {
		p.loginLimit = func(next http.Handler) http.Handler { return next }
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Routes registers every page on r. Everything except the login page
// requires a signed-in user.
func (p *Pages) Routes(r chi.Router) {
	r.Use(p.DeviceMiddleware)

	r.Get("/", p.LoginPage)
	r.With(p.loginLimit).Post("/login", p.Login)

	r.Group(func(r chi.Router) {
		r.Use(p.RequireSession)

		r.Get("/dashboard", p.Dashboard)
		r.Post("/dashboard/rooms", p.RoomAction)
		r.Post("/logout", p.Logout)

		r.Get("/chat", p.DefaultChat)
		r.Get("/chat/{roomId}", p.ChatRoom)
		r.Post("/chat/{roomId}/messages", p.SendMessage)
		r.Post("/chat/{roomId}/improve", p.ImproveMessage)
		r.Post("/chat/{roomId}/messages/{messageId}/translate", p.Translate)
		r.Post("/chat/{roomId}/delete", p.DeleteRoom)

		r.Get("/profile", p.Profile)
		r.Post("/profile/avatar", p.UploadAvatar)
	})
}

// render writes page with the device's pending toasts followed by extra.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, page, title string, content any, extra ...models.Toast) {
	data := web.Page{
		Title:   title,
		Toasts:  append(p.toasts.Drain(DeviceFrom(r.Context()).ID), extra...),
		Content: content,
	}
	if user, ok := UserFrom(r.Context()); ok {
		data.User = &user
	}

	var buf bytes.Buffer
	if err := p.views.Render(&buf, page, data); err != nil {
		p.serverError(w, r, err, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// redirect queues toasts for the next page and navigates to target.
func (p *Pages) redirect(w http.ResponseWriter, r *http.Request, target string, toasts ...models.Toast) {
	p.toasts.Push(DeviceFrom(r.Context()).ID, toasts...)
	http.Redirect(w, r, target, http.StatusFound)
}

func (p *Pages) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("device", DeviceFrom(r.Context()).ID).Msg(msg)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
