package pages

import (
	"errors"
	"net/http"

	"catalyst/internal/auth"
	"catalyst/internal/models"
	"catalyst/internal/web"

	"github.com/rs/zerolog"
)

type loginContent struct {
	SignUp bool
	Email  string
}

// LoginPage is shown to everybody, signed in or not.
func (p *Pages) LoginPage(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, web.PageLogin, "Sign in", loginContent{
		SignUp: r.URL.Query().Get("mode") == "signup",
	})
}

func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	req := auth.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		SignUp:   r.PostFormValue("mode") == "signup",
	}

	resp, err := p.auth.Login(req)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		p.render(w, r, web.PageLogin, "Sign in", loginContent{SignUp: req.SignUp, Email: req.Email}, verr.Toast())
		return
	}
	if err != nil {
		p.serverError(w, r, err, "login failed")
		return
	}

	device := DeviceFrom(r.Context())
	if err := p.sessions.For(device.ID).Save(resp.User); err != nil {
		p.serverError(w, r, err, "failed to save session")
		return
	}

	p.metrics.RecordLogin(req.SignUp)
	zerolog.Ctx(r.Context()).Info().Str("device", device.ID).Bool("signup", req.SignUp).Msg("user signed in")

	p.redirect(w, r, "/dashboard", models.NewToast(resp.Title, resp.Message))
}

func (p *Pages) Logout(w http.ResponseWriter, r *http.Request) {
	device := DeviceFrom(r.Context())
	if err := p.sessions.For(device.ID).Clear(); err != nil {
		p.serverError(w, r, err, "failed to clear session")
		return
	}

	p.metrics.RecordLogout()
	zerolog.Ctx(r.Context()).Info().Str("device", device.ID).Msg("user signed out")

	p.redirect(w, r, "/", models.NewToast("Logged out", "See you next time!"))
}
