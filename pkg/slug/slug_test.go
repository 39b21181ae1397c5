// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kritika/pkg/slug"
)

/*
TestFrom verifies the full slugification pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Films", "films"},
		{"spaces", "Science Fiction", "science-fiction"},
		{"accents", "Café Crème", "cafe-creme"},
		{"punctuation", "Rock & Roll!", "rock-roll"},
		{"collapse_hyphens", "a -- b", "a-b"},
		{"trim_edges", " padded ", "padded"},
		{"digits", "Top 10 of 1994", "top-10-of-1994"},
		{"empty", "", ""},
		{"only_symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
