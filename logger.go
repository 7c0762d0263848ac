// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

// LoggerInterface is used for debugging. Both Print and Printf have the
// same signatures as Package Log in the standard library, so *log.Logger
// satisfies this interface directly; it is kept minimal to give you
// flexibility in how you do your own logging.
type LoggerInterface interface {
	Print(v ...any)
	Printf(format string, v ...any)
}

// Logger wraps an optional LoggerInterface. A zero-value Logger (or one
// built with a nil LoggerInterface) silently discards all output; Endpoint
// uses this to make logging opt-in without a separate enabled flag.
//
// For verbose logging to stdout:
//
//	endpoint.SetLogger(snmp.NewLogger(log.New(os.Stdout, "", 0)))
type Logger struct {
	logger LoggerInterface
}

// NewLogger wraps logger for use as an Endpoint's Logger.
func NewLogger(logger LoggerInterface) Logger {
	return Logger{logger: logger}
}
