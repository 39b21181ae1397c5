// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kritika/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and clamping of hostile values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", pagination.DefaultPage, pagination.DefaultLimit},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero_page", "?page=0", pagination.DefaultPage, pagination.DefaultLimit},
		{"negative_page", "?page=-2", pagination.DefaultPage, pagination.DefaultLimit},
		{"excessive_limit", "?limit=100000", pagination.DefaultPage, pagination.DefaultLimit},
		{"max_limit_allowed", "?limit=100", pagination.DefaultPage, pagination.MaxLimit},
		{"garbage", "?page=abc&limit=xyz", pagination.DefaultPage, pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/titles"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies the SQL offset derivation.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total-page arithmetic, including the partial last page.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name           string
		limit, total   int
		wantTotalPages int
	}{
		{"exact_division", 10, 100, 10},
		{"partial_last_page", 10, 101, 11},
		{"empty_set", 10, 0, 0},
		{"single_item", 20, 1, 1},
		{"zero_limit", 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(1, tt.limit, tt.total)
			assert.Equal(t, tt.wantTotalPages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}
