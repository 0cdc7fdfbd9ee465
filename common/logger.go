// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"github.com/ipfs/go-log"
)

// LoggerName is the go-log subsystem name; pass it to log.SetLogLevel.
const LoggerName = "consistenttime"

var Logger = log.Logger(LoggerName)

// SetLogLevel adjusts the verbosity of Logger, e.g. "debug", "info" or "error".
func SetLogLevel(level string) error {
	return log.SetLogLevel(LoggerName, level)
}
