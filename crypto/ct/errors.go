// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ct

import (
	"github.com/pkg/errors"

	"github.com/iofinnet/consistenttime/common"
)

// ErrLengthMismatch is the cause of the panic raised by the Copy functions when
// the target and source lengths differ.
var ErrLengthMismatch = errors.New("consistenttime: attempted to copy between non-equal lens")

// lengthMismatch reports a programming error. Lengths are public, so branching
// on them here leaks nothing.
func lengthMismatch(op string, xLen, yLen int) {
	common.Logger.Errorf("%s: target has %d elements, source has %d", op, xLen, yLen)
	panic(errors.Wrapf(ErrLengthMismatch, "%s(%d, %d)", op, xLen, yLen))
}
