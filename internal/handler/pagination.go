// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Pagination holds pagination data for the members template.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	Pages       []PaginationPage
	BaseURL     string
}

// PaginationPage represents a single page link.
type PaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// BuildPagination creates pagination links around currentPage, showing at most
// five numbered pages with the first and last page reachable through an ellipsis.
func BuildPagination(currentPage, totalPages int, baseURL string) Pagination {
	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrev:     currentPage > 1 && totalPages > 0,
		HasNext:     currentPage < totalPages,
		BaseURL:     baseURL,
	}
	if totalPages < 1 {
		return p
	}

	start := currentPage - 2
	end := currentPage + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > totalPages {
		end = totalPages
		start = max(end-4, 1)
	}

	if start > 1 {
		p.Pages = append(p.Pages, PaginationPage{Number: 1, URL: p.PageURL(1)})
		if start > 2 {
			p.Pages = append(p.Pages, PaginationPage{IsEllipsis: true})
		}
	}

	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, PaginationPage{
			Number:    i,
			URL:       p.PageURL(i),
			IsCurrent: i == currentPage,
		})
	}

	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, PaginationPage{IsEllipsis: true})
		}
		p.Pages = append(p.Pages, PaginationPage{Number: totalPages, URL: p.PageURL(totalPages)})
	}

	return p
}

// PageURL returns the URL for a specific page number.
func (p Pagination) PageURL(page int) string {
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the URL for the previous page. Past the end it points at the last page.
func (p Pagination) PrevURL() string {
	return p.PageURL(min(p.CurrentPage-1, p.TotalPages))
}

// NextURL returns the URL for the next page.
func (p Pagination) NextURL() string {
	return p.PageURL(p.CurrentPage + 1)
}

// ParsePageParam parses the "page" query parameter from the request.
// Returns 1 if the parameter is missing, empty, invalid or below 1.
func ParsePageParam(r *http.Request) int {
	str := r.URL.Query().Get("page")
	if str == "" {
		return 1
	}
	val, err := strconv.Atoi(str)
	if err != nil || val < 1 {
		return 1
	}
	return val
}

var errMissingParam = errors.New("missing URL parameter")

// ParseIDParam parses the "id" URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	return ParseURLParamInt64(r, "id")
}

// ParseURLParamInt64 parses a named chi URL parameter as int64.
func ParseURLParamInt64(r *http.Request, name string) (int64, error) {
	str := chi.URLParam(r, name)
	if str == "" {
		return 0, fmt.Errorf("%s: %w", name, errMissingParam)
	}
	return strconv.ParseInt(str, 10, 64)
}
