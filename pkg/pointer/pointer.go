// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer provides tiny helpers for optional (pointer) values,
// mostly used when building PATCH payloads and tests.
package pointer

// To returns a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to value, or the fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
