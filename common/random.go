// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

// Stream is a ChaCha20 keystream keyed from crypto/rand. It produces the
// secret-looking operands and class schedules used by the timing harness,
// fast enough to stay out of the measured region. A Stream is not safe for
// concurrent use.
type Stream struct {
	cipher *chacha20.Cipher
	buf    [8]byte
}

// NewStream keys a fresh Stream from rand.Reader.
func NewStream() (*Stream, error) {
	key := make([]byte, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, errors.Wrap(err, "rand.Reader failure in NewStream")
	}
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "chacha20.NewUnauthenticatedCipher failure in NewStream")
	}
	return &Stream{cipher: c}, nil
}

// MustNewStream panics if it is unable to gather entropy from `rand.Reader`
func MustNewStream() *Stream {
	s, err := NewStream()
	if err != nil {
		panic(err)
	}
	return s
}

// Read fills p with keystream bytes. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Uint64 returns the next eight keystream bytes as a little-endian integer.
func (s *Stream) Uint64() uint64 {
	_, _ = s.Read(s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}

// Bit returns 0 or 1.
func (s *Stream) Bit() int {
	_, _ = s.Read(s.buf[:1])
	return int(s.buf[0] & 1)
}
