// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package internal_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/iofinnet/consistenttime/internal"
)

var errExpected = errors.New("expected failure")

func TestExpectPanic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected error
		f        func()
		want     bool
	}{
		{"no panic", errExpected, func() {}, false},
		{"any panic accepted", nil, func() { panic("boom") }, true},
		{"exact error", errExpected, func() { panic(errExpected) }, true},
		{"wrapped error", errExpected, func() { panic(errors.Wrap(errExpected, "context")) }, true},
		{"same message", errExpected, func() { panic(errors.New("expected failure")) }, true},
		{"different error", errExpected, func() { panic(errors.New("other")) }, false},
		{"non-error value", errExpected, func() { panic(42) }, false},
	}
	for _, tt := range tests {
		ok, err := internal.ExpectPanic(tt.expected, tt.f)
		assert.Equalf(t, tt.want, ok, "%s: %v", tt.name, err)
		if tt.want {
			assert.NoError(t, err, tt.name)
		} else {
			assert.Error(t, err, tt.name)
		}
	}
}
