// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"catalyst/internal/models"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

// Static returns the assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageChat      = "chat"
	PageProfile   = "profile"
)

// Page is what every template receives. Content is page specific.
type Page struct {
	Title   string
	User    *models.User
	Toasts  []models.Toast
	Content any
}

// Bubble is a message as shown in a room.
type Bubble struct {
	RoomID  string
	Message models.Message
}

type Views struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"initial": models.Initial,
	"avatarSrc": func(dataURI string) template.URL {
		// Only images are shown, anything else falls back to the initial.
		if strings.HasPrefix(dataURI, "data:image/") {
			return template.URL(dataURI)
		}
		return ""
	},
	"bubble": func(roomID string, m models.Message) Bubble {
		return Bubble{RoomID: roomID, Message: m}
	},
	"isDestructive": func(t models.Toast) bool {
		return t.Variant == models.VariantDestructive
	},
}

func NewViews() (*Views, error) {
	v := &Views{pages: map[string]*template.Template{}}
	for _, page := range []string{PageLogin, PageDashboard, PageChat, PageProfile} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templates,
			"templates/layout.html",
			"templates/components.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

func (v *Views) Render(w io.Writer, page string, data Page) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
