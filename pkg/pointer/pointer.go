// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer builds and merges the optional fields of request bodies.

Create and PATCH payloads decode into structs of pointers so an absent
field can be told apart from a zero one. A nil pointer on create means the
field was not sent; on PATCH it means the stored value is kept.
*/
package pointer

import "strings"

// To returns a pointer to v, for filling optional payload fields.
func To[T any](v T) *T {
	return &v
}

// Or returns *p, or current when the field was not sent.
func Or[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}

// Trimmed returns the sent text without surrounding whitespace, or "".
func Trimmed(p *string) string {
	return TrimmedOr(p, "")
}

// TrimmedOr is [Or] for free text: a sent value is trimmed, current is kept as stored.
func TrimmedOr(p *string, current string) string {
	if p == nil {
		return current
	}
	return strings.TrimSpace(*p)
}
