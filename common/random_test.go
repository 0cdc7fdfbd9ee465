// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/iofinnet/consistenttime/common"
)

func TestStream(t *testing.T) {
	t.Parallel()
	a, err := NewStream()
	require.NoError(t, err)
	b := MustNewStream()

	bufA := make([]byte, 64)
	bufB := make([]byte, 64)
	n, err := a.Read(bufA)
	require.NoError(t, err)
	assert.Equal(t, 64, n)
	_, _ = b.Read(bufB)
	assert.False(t, bytes.Equal(bufA, bufB), "independently keyed streams must differ")
	assert.False(t, bytes.Equal(bufA, make([]byte, 64)))

	next := make([]byte, 64)
	_, _ = a.Read(next)
	assert.False(t, bytes.Equal(bufA, next), "stream must advance")
}

func TestStream_Bit(t *testing.T) {
	t.Parallel()
	s := MustNewStream()
	var counts [2]int
	for i := 0; i < 1000; i++ {
		bit := s.Bit()
		require.Contains(t, []int{0, 1}, bit)
		counts[bit]++
	}
	assert.Positive(t, counts[0])
	assert.Positive(t, counts[1])
}

func TestStream_Uint64(t *testing.T) {
	t.Parallel()
	s := MustNewStream()
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		seen[s.Uint64()] = true
	}
	assert.Len(t, seen, 100)
}

func TestSetLogLevel(t *testing.T) {
	assert.NoError(t, SetLogLevel("error"))
	assert.Error(t, SetLogLevel("not-a-level"))
	assert.NoError(t, SetLogLevel("info"))
}
