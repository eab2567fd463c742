// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/yordsite/yord/internal/metrics"
	"github.com/yordsite/yord/internal/render"
	"github.com/yordsite/yord/internal/service"
	"github.com/yordsite/yord/internal/validation"
)

// GalleryItem is one photo on the gallery page, served from /static/img.
type GalleryItem struct {
	File string
	Alt  string
}

// DefaultGallery is the set of photos shown on /gallery.
var DefaultGallery = []GalleryItem{
	{File: "live-stage.svg", Alt: "YORD on stage"},
	{File: "rehearsal.svg", Alt: "Rehearsal night"},
	{File: "crowd.svg", Alt: "The crowd at the album launch"},
}

// homeData is the view model of the signup page.
type homeData struct {
	EmailRegistered bool
}

// GeneralHandler serves the public pages: signup, confirmation, about,
// gallery and the contact form.
type GeneralHandler struct {
	members  *service.MemberService
	renderer *render.Renderer
	metrics  *metrics.Metrics
	gallery  []GalleryItem
}

// NewGeneralHandler creates a new GeneralHandler.
func NewGeneralHandler(members *service.MemberService, renderer *render.Renderer, m *metrics.Metrics) *GeneralHandler {
	return &GeneralHandler{
		members:  members,
		renderer: renderer,
		metrics:  m,
		gallery:  DefaultGallery,
	}
}

// Home renders the signup form.
func (h *GeneralHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, templateHome, render.TemplateData{
		Title: "Join our mailing list",
		Data:  homeData{},
	})
}

// Register handles the signup form submission.
func (h *GeneralHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRoot) {
		return
	}

	form := formValues(r, "name", "email")
	renderForm := func(errs validation.Errors, registered bool) {
		renderPage(w, r, h.renderer, http.StatusOK, templateHome, render.TemplateData{
			Title:  "Join our mailing list",
			Data:   homeData{EmailRegistered: registered},
			Form:   form,
			Errors: errs,
		})
	}

	if errs := validation.Member.Validate(form); !errs.Empty() {
		h.metrics.Registration(metrics.ResultInvalid)
		renderForm(errs, false)
		return
	}

	registered, err := h.members.EmailRegistered(r.Context(), form["email"])
	if err != nil {
		slog.Error("failed to check email", "error", err)
		h.metrics.Registration(metrics.ResultError)
		http.Redirect(w, r, RouteError, http.StatusSeeOther)
		return
	}
	if registered {
		h.metrics.Registration(metrics.ResultDuplicate)
		renderForm(nil, true)
		return
	}

	// Create still reports ErrDuplicateEmail when a concurrent signup wins.
	member, err := h.members.Create(r.Context(), form["name"], form["email"])
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			h.metrics.Registration(metrics.ResultDuplicate)
			renderForm(nil, true)
		case errors.As(err, &verr):
			h.metrics.Registration(metrics.ResultInvalid)
			renderForm(verr.Errors, false)
		default:
			slog.Error("failed to add member", "error", err)
			h.metrics.Registration(metrics.ResultError)
			http.Redirect(w, r, RouteError, http.StatusSeeOther)
		}
		return
	}

	slog.Info("member subscribed", "member_id", member.ID)
	h.metrics.Registration(metrics.ResultOK)
	http.Redirect(w, r, RouteConfirm, http.StatusSeeOther)
}

// Confirm renders the page shown after a successful signup.
func (h *GeneralHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, templateConfirm, render.TemplateData{
		Title: "Thank you for subscribing",
	})
}

// SignupError renders the generic signup failure page.
func (h *GeneralHandler) SignupError(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, templateError, render.TemplateData{
		Title: "Sorry!",
	})
}

// About renders the band page.
func (h *GeneralHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, templateAbout, render.TemplateData{
		Title: "What is YORD?",
	})
}

// Gallery renders the photo gallery.
func (h *GeneralHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, templateGallery, render.TemplateData{
		Title: "Photo gallery",
		Data:  h.gallery,
	})
}

// ContactForm renders the contact form.
func (h *GeneralHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, templateContact, render.TemplateData{
		Title: "Contact us",
	})
}

// Contact validates a contact query. Queries are logged, not stored.
func (h *GeneralHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	form := formValues(r, "name", "email", "query")
	if errs := validation.Contact.Validate(form); !errs.Empty() {
		renderPage(w, r, h.renderer, http.StatusOK, templateContact, render.TemplateData{
			Title:  "Contact us",
			Form:   form,
			Errors: errs,
		})
		return
	}

	query := validation.Normalize(form["query"])
	slog.Info("contact query received",
		"name", validation.Normalize(form["name"]),
		"email", validation.Normalize(form["email"]),
		"length", utf8.RuneCountInString(query),
	)
	h.metrics.Contact()
	flashSuccess(w, r, h.renderer, RouteContact, msgContactSent)
}
