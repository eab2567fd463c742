// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var Templates embed.FS

//go:embed all:static
var static embed.FS

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplatesFS returns the templates rooted at the templates directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(Templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
