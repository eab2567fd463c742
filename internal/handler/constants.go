// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the signup page.
	RouteRoot = "/"
	// RouteRegister is the explicit signup route.
	RouteRegister = "/register"
	// RouteConfirm is shown after a successful signup.
	RouteConfirm = "/confirm"
	// RouteError is the generic signup failure page.
	RouteError   = "/error"
	RouteAbout   = "/about"
	RouteGallery = "/gallery"
	RouteContact = "/contact"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteMembers is the mailing list admin route.
	RouteMembers = "/members"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteSuffixEdit is the suffix for edit routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"

	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
	RouteStatic  = "/static/*"
)

// Template names.
const (
	templateHome    = "pages/home"
	templateConfirm = "pages/confirm"
	templateError   = "pages/error"
	templateAbout   = "pages/about"
	templateGallery = "pages/gallery"
	templateContact = "pages/contact"
	templateLogin   = "auth/login"
	templateMembers = "mailing/members"
	templateEdit    = "mailing/edit"
)

// User facing messages.
const (
	msgContactSent   = "Thanks for getting in touch! We will reply as soon as we can."
	msgMemberUpdated = "Member details updated."
	msgMemberDeleted = "Member removed from the mailing list."
	msgDeleteFailed  = "There was an issue deleting the member from the mailing list."
	msgInvalidForm   = "Invalid form data"
)
