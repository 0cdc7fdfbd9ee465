// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package internal

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	errNoPanic        = errors.New("no panic")
	errNoPanicMessage = errors.New("panic but no error value")
)

// recovered runs f and returns whatever it panicked with.
func recovered(f func()) (has bool, report interface{}) {
	func() {
		defer func() {
			if report = recover(); report != nil {
				has = true
			}
		}()

		f()
	}()
	return has, report
}

// ExpectPanic executes f with the expectation that it panics. With a nil
// expectedError any panic is accepted. Otherwise the panic value must be an
// error whose errors.Cause is expectedError (compared by identity, then by
// message). ExpectPanic returns (false, reason) when the expectation is not met.
func ExpectPanic(expectedError error, f func()) (bool, error) {
	has, report := recovered(f)

	if !has {
		return false, errNoPanic
	}

	if expectedError == nil {
		return true, nil
	}

	err, isErr := report.(error)
	if !isErr {
		return false, errors.Wrap(errNoPanicMessage, fmt.Sprintf("%v", report))
	}

	cause := errors.Cause(err)
	if cause == expectedError || cause.Error() == expectedError.Error() {
		return true, nil
	}

	return false, errors.Errorf("expected %q, got: %q", expectedError, err)
}
