package pages

import (
	"errors"
	"net/http"

	"catalyst/internal/avatar"
	"catalyst/internal/models"
	"catalyst/internal/web"

	"github.com/rs/zerolog"
)

// multipartOverhead is the room left for form boundaries and headers
// around the avatar file.
const multipartOverhead = 64 << 10

// MemberSinceLayout renders the device registration date, e.g. "5/1/2024".
const MemberSinceLayout = "1/2/2006"

type profileContent struct {
	MemberSince string
}

func (p *Pages) Profile(w http.ResponseWriter, r *http.Request) {
	p.renderProfile(w, r)
}

func (p *Pages) renderProfile(w http.ResponseWriter, r *http.Request, toasts ...models.Toast) {
	p.render(w, r, web.PageProfile, "Your Profile", profileContent{
		MemberSince: DeviceFrom(r.Context()).CreatedAt.Format(MemberSinceLayout),
	}, toasts...)
}

// UploadAvatar stores the chosen file as the avatar data URI. Choosing no
// file does nothing. When uploads overlap only the latest one is applied.
func (p *Pages) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, p.maxUploadBytes)

	file, header, err := r.FormFile("avatar")
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile):
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	case errors.As(err, &maxErr):
		p.renderProfile(w, r, avatar.TooLargeError(p.maxAvatarBytes).Toast())
		return
	case err != nil:
		http.Error(w, "Failed to parse upload", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	device := DeviceFrom(r.Context())
	store := p.sessions.For(device.ID)

	err = p.avatars.Read(r.Context(), device.ID, file, header.Header.Get("Content-Type"), store.UpdateAvatar)
	var verr *models.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		p.renderProfile(w, r, verr.Toast())
		return
	case errors.Is(err, avatar.ErrSuperseded):
		zerolog.Ctx(r.Context()).Debug().Str("device", device.ID).Msg("avatar upload superseded")
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	case errors.Is(err, models.ErrMissingSession):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	default:
		p.serverError(w, r, err, "failed to update avatar")
		return
	}

	p.metrics.RecordAvatarUpdate()
	p.redirect(w, r, "/profile", models.NewToast("Avatar Updated", "Your profile picture has been updated!"))
}
