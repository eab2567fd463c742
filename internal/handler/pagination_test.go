// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		wantNumbers []int // 0 marks an ellipsis
		wantHasPrev bool
		wantHasNext bool
	}{
		{"no members", 1, 0, nil, false, false},
		{"single page", 1, 1, []int{1}, false, false},
		{"first of five", 1, 5, []int{1, 2, 3, 4, 5}, false, true},
		{"middle of ten", 5, 10, []int{1, 0, 3, 4, 5, 6, 7, 0, 10}, true, true},
		{"last of ten", 10, 10, []int{1, 0, 6, 7, 8, 9, 10}, true, false},
		{"second of ten", 2, 10, []int{1, 2, 3, 4, 5, 0, 10}, true, true},
		{"past the end", 12, 3, []int{1, 2, 3}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.currentPage, tt.totalPages, "/members")

			var got []int
			for _, pg := range p.Pages {
				if pg.IsEllipsis {
					got = append(got, 0)
					continue
				}
				got = append(got, pg.Number)
				if pg.IsCurrent != (pg.Number == tt.currentPage) {
					t.Errorf("page %d IsCurrent = %v", pg.Number, pg.IsCurrent)
				}
			}

			if len(got) != len(tt.wantNumbers) {
				t.Fatalf("pages = %v, want %v", got, tt.wantNumbers)
			}
			for i := range got {
				if got[i] != tt.wantNumbers[i] {
					t.Fatalf("pages = %v, want %v", got, tt.wantNumbers)
				}
			}
			if p.HasPrev != tt.wantHasPrev {
				t.Errorf("HasPrev = %v, want %v", p.HasPrev, tt.wantHasPrev)
			}
			if p.HasNext != tt.wantHasNext {
				t.Errorf("HasNext = %v, want %v", p.HasNext, tt.wantHasNext)
			}
		})
	}
}

func TestPaginationURLs(t *testing.T) {
	p := BuildPagination(3, 5, "/members")
	if got := p.PrevURL(); got != "/members?page=2" {
		t.Errorf("PrevURL() = %q", got)
	}
	if got := p.NextURL(); got != "/members?page=4" {
		t.Errorf("NextURL() = %q", got)
	}

	past := BuildPagination(9, 4, "/members")
	if got := past.PrevURL(); got != "/members?page=4" {
		t.Errorf("PrevURL() past the end = %q, want last page", got)
	}
}

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"valid page", "page=3", 3},
		{"first page", "page=1", 1},
		{"no param", "", 1},
		{"empty param", "page=", 1},
		{"invalid param", "page=abc", 1},
		{"zero page", "page=0", 1},
		{"negative page", "page=-1", 1},
		{"large page", "page=999", 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got := ParsePageParam(req)
			if got != tt.want {
				t.Errorf("ParsePageParam() with query %q = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int64
		wantErr bool
	}{
		{"valid id", "123", 123, false},
		{"large id", "9999999999", 9999999999, false},
		{"empty id", "", 0, true},
		{"invalid id", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := ParseIDParam(req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIDParam() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseIDParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{24 * time.Hour, "24 hours"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
