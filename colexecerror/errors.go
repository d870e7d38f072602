// Copyright 2018 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package colexecerror defines the closed set of exit codes the engine
// surfaces through Cursor.Next's Failure variant, per spec.md §6/§7.
package colexecerror

import "github.com/cockroachdb/errors"

// Code is one of the closed exit-surface error codes from spec.md §6.
type Code int

const (
	_ Code = iota
	MemoryExceeded
	TempFileCreationError
	NotImplemented
	InvalidArgumentValue
	Interrupted
)

func (c Code) String() string {
	switch c {
	case MemoryExceeded:
		return "MEMORY_EXCEEDED"
	case TempFileCreationError:
		return "ERROR_TEMP_FILE_CREATION_ERROR"
	case NotImplemented:
		return "ERROR_NOT_IMPLEMENTED"
	case InvalidArgumentValue:
		return "ERROR_INVALID_ARGUMENT_VALUE"
	case Interrupted:
		return "INTERRUPTED"
	default:
		return "UNKNOWN"
	}
}

// CodedError pairs one of the closed error codes with a human-readable
// cause, matching spec.md §7's "tagged result carrying... an exception
// with error-code + message + optional chain".
type CodedError struct {
	code  Code
	cause error
}

func (e *CodedError) Error() string {
	return e.code.String() + ": " + e.cause.Error()
}

func (e *CodedError) Unwrap() error { return e.cause }

// Code returns the coded error's Code.
func (e *CodedError) Code() Code { return e.code }

// New builds a CodedError with the given code and message.
func New(code Code, msg string) *CodedError {
	return &CodedError{code: code, cause: errors.New(msg)}
}

// Newf builds a CodedError with a formatted message.
func Newf(code Code, format string, args ...interface{}) *CodedError {
	return &CodedError{code: code, cause: errors.Newf(format, args...)}
}

// Wrap attaches a code to an existing error, preserving its chain.
func Wrap(code Code, cause error) *CodedError {
	return &CodedError{code: code, cause: cause}
}

// CodeOf extracts the Code from err's chain, if any is present.
func CodeOf(err error) (Code, bool) {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.code, true
	}
	return 0, false
}
