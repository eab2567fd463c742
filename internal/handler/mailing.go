// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yordsite/yord/internal/metrics"
	"github.com/yordsite/yord/internal/render"
	"github.com/yordsite/yord/internal/service"
	"github.com/yordsite/yord/internal/store"
	"github.com/yordsite/yord/internal/validation"
)

const msgEmailRegistered = "This email is already registered!"

// membersData is the view model of the mailing list page.
type membersData struct {
	Page       service.MemberPage
	Pagination Pagination
}

// editData is the view model of the edit page.
type editData struct {
	Member        store.Member
	ErrorUpdating bool
}

// MailingHandler serves the administrator views of the mailing list.
// All routes require an authenticated session.
type MailingHandler struct {
	members  *service.MemberService
	renderer *render.Renderer
	metrics  *metrics.Metrics
}

// NewMailingHandler creates a new MailingHandler.
func NewMailingHandler(members *service.MemberService, renderer *render.Renderer, m *metrics.Metrics) *MailingHandler {
	return &MailingHandler{
		members:  members,
		renderer: renderer,
		metrics:  m,
	}
}

// List renders one page of members.
func (h *MailingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.members.List(r.Context(), ParsePageParam(r))
	if err != nil {
		logAndInternalError(w, "failed to list members", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, templateMembers, render.TemplateData{
		Title: "Manage mailing list",
		Data: membersData{
			Page:       page,
			Pagination: BuildPagination(page.Page, page.TotalPages, RouteMembers),
		},
	})
}

// loadMember resolves the {id} parameter. Unknown ids redirect to the list.
func (h *MailingHandler) loadMember(w http.ResponseWriter, r *http.Request) (store.Member, bool) {
	id, err := ParseIDParam(r)
	if err != nil {
		http.Redirect(w, r, RouteMembers, http.StatusSeeOther)
		return store.Member{}, false
	}

	member, err := h.members.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrMemberNotFound) {
			slog.Error("failed to get member", "error", err, "member_id", id)
		}
		http.Redirect(w, r, RouteMembers, http.StatusSeeOther)
		return store.Member{}, false
	}
	return member, true
}

func (h *MailingHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, member store.Member, form map[string]string, errs validation.Errors, failed bool) {
	renderPage(w, r, h.renderer, status, templateEdit, render.TemplateData{
		Title:  "Edit member details",
		Data:   editData{Member: member, ErrorUpdating: failed},
		Form:   form,
		Errors: errs,
	})
}

// EditForm renders the edit form filled with the stored values.
func (h *MailingHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	form := map[string]string{"name": member.Name, "email": member.Email}
	h.renderEdit(w, r, http.StatusOK, member, form, nil, false)
}

// Update handles the edit form submission. On failure the submitted values
// are shown again and the stored record is left unchanged.
func (h *MailingHandler) Update(w http.ResponseWriter, r *http.Request) {
	member, ok := h.loadMember(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteMembers) {
		return
	}

	form := formValues(r, "name", "email")
	if errs := validation.Member.Validate(form); !errs.Empty() {
		h.metrics.MemberChange(metrics.OpUpdate, metrics.ResultInvalid)
		h.renderEdit(w, r, http.StatusOK, member, form, errs, true)
		return
	}

	updated, err := h.members.Update(r.Context(), member.ID, form["name"], form["email"])
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			h.metrics.MemberChange(metrics.OpUpdate, metrics.ResultNotFound)
			http.Redirect(w, r, RouteMembers, http.StatusSeeOther)
		case errors.Is(err, service.ErrDuplicateEmail):
			h.metrics.MemberChange(metrics.OpUpdate, metrics.ResultDuplicate)
			errs := validation.Errors{}
			errs.Add("email", msgEmailRegistered)
			h.renderEdit(w, r, http.StatusOK, member, form, errs, true)
		case errors.As(err, &verr):
			h.metrics.MemberChange(metrics.OpUpdate, metrics.ResultInvalid)
			h.renderEdit(w, r, http.StatusOK, member, form, verr.Errors, true)
		default:
			slog.Error("failed to update member", "error", err, "member_id", member.ID)
			h.metrics.MemberChange(metrics.OpUpdate, metrics.ResultError)
			h.renderEdit(w, r, http.StatusInternalServerError, member, form, nil, true)
		}
		return
	}

	slog.Info("member updated", "member_id", updated.ID)
	h.metrics.MemberChange(metrics.OpUpdate, metrics.ResultOK)
	flashSuccess(w, r, h.renderer, RouteMembers, msgMemberUpdated)
}

// Delete removes a member and returns to the list.
func (h *MailingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		h.metrics.MemberChange(metrics.OpDelete, metrics.ResultNotFound)
		flashError(w, r, h.renderer, RouteMembers, msgDeleteFailed)
		return
	}

	if err := h.members.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			h.metrics.MemberChange(metrics.OpDelete, metrics.ResultNotFound)
		} else {
			slog.Error("failed to delete member", "error", err, "member_id", id)
			h.metrics.MemberChange(metrics.OpDelete, metrics.ResultError)
		}
		flashError(w, r, h.renderer, RouteMembers, msgDeleteFailed)
		return
	}

	slog.Info("member deleted", "member_id", id)
	h.metrics.MemberChange(metrics.OpDelete, metrics.ResultOK)
	flashSuccess(w, r, h.renderer, RouteMembers, msgMemberDeleted)
}
