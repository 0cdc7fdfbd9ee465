// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ct

import (
	"unsafe"
)

// The gc toolchain stores a bool in one byte holding 0x00 for false and 0x01
// for true. The two functions below reinterpret that byte in place, so the
// conversion compiles to a plain move with no compare or branch. No other code
// in this package converts between bool and an integer.

func boolToUint8(b bool) uint8 {
	return *(*uint8)(unsafe.Pointer(&b))
}

// uint8ToBool requires v to be 0 or 1. Any other value yields a bool with an
// invalid representation and the behaviour of code reading it is undefined.
func uint8ToBool(v uint8) bool {
	return *(*bool)(unsafe.Pointer(&v))
}
