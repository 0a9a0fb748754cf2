// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the correlation identifiers attached to requests.

Values are Version 7, so log lines sorted by request id also sort by arrival.
*/
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7 string, or a random v4 when the v7 generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
