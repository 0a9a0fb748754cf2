// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses query-string values leniently.

A malformed value is treated like an absent one, which is how list filters and
paging parameters behave. Use [strconv] directly where malformed input must be
reported.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt converts s to an int, returning 0 when s is empty or malformed.
func ToInt(s string) int {
	return ToIntD(s, 0)
}

// ToIntD converts s to an int, returning def when s is empty or malformed.
func ToIntD(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
