// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/convert"
)

func TestToIntD(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1994", 1994},
		{" 7 ", 7},
		{"-3", -3},
		{"", 5},
		{"2x", 5},
		{"3.5", 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, convert.ToIntD(tt.input, 5))
		})
	}

	assert.Equal(t, 0, convert.ToInt("abc"))
}
