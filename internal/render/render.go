// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded page templates and executes them with
// the per-request layout data.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/yordsite/yord/internal/auth"
	"github.com/yordsite/yord/internal/validation"
)

// Session keys for one-shot flash messages.
const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashType = "flash_type"
)

// pageDirs are the template directories rendered inside layouts/base.html.
var pageDirs = []string{"pages", "auth", "mailing"}

// Renderer handles template rendering with parsed templates cached by name.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, dir := range pageDirs {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, tmplPath := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			files := []string{"layouts/base.html"}
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns all .html files in dir. A missing dir yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"fieldErrors": func(errs validation.Errors, field string) []string {
			return errs[field]
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title string
	Data  any

	// Form holds submitted values for re-rendering; Errors the field failures.
	Form   map[string]string
	Errors validation.Errors

	Flash           string
	FlashType       string
	CurrentYear     int
	CurrentPath     string
	IsAuthenticated bool
}

// Render renders a page template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a page template with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.CurrentPath = req.URL.Path
	_, data.IsAuthenticated = auth.UserID(req.Context())
	if data.Form == nil {
		data.Form = map[string]string{}
	}

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), sessionKeyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), sessionKeyFlashType)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("writing response", "error", err, "template", name)
	}
	return nil
}

// SetFlash stores a flash message shown on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), sessionKeyFlash, message)
		r.sessionManager.Put(req.Context(), sessionKeyFlashType, flashType)
	}
}

// Has reports whether a template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
