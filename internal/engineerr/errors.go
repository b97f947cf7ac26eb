// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// Package engineerr defines the error-kind taxonomy surfaced at the
// boundary of the execution core: IO, InvalidColumn, NotImplemented,
// Internal, General and Arrow. Callers are not expected to match on
// message text, only on Kind.
package engineerr

import "fmt"

// Kind classifies an Error without binding callers to its message text.
type Kind int

const (
	// Internal marks an invariant violation inside the core itself.
	Internal Kind = iota
	// IO marks an underlying file or decoder I/O failure.
	IO
	// InvalidColumn marks an out-of-range projection or column reference.
	InvalidColumn
	// NotImplemented marks an unsupported schema feature.
	NotImplemented
	// General marks an adapter-layer failure (channel send/receive, worker lifecycle).
	General
	// Arrow marks a wrapped failure from a columnar compute or builder API.
	Arrow
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case InvalidColumn:
		return "invalid_column"
	case NotImplemented:
		return "not_implemented"
	case Internal:
		return "internal"
	case General:
		return "general"
	case Arrow:
		return "arrow"
	default:
		return "unknown"
	}
}

// Error wraps a Kind and a location-tagged cause, mirroring the
// location+cause wrapping style used elsewhere in this codebase for
// adapter-layer failures.
type Error struct {
	Kind     Kind
	Location string
	Cause    error
}

func (e *Error) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Location, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newf(kind Kind, loc, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Location: loc, Cause: fmt.Errorf(format, args...)}
}

func wrap(kind Kind, loc string, err error) *Error {
	return &Error{Kind: kind, Location: loc, Cause: err}
}

// IOf builds an IO-kind error.
func IOf(loc, format string, args ...interface{}) *Error { return newf(IO, loc, format, args...) }

// WrapIO wraps err as an IO-kind error.
func WrapIO(loc string, err error) *Error { return wrap(IO, loc, err) }

// InvalidColumnf builds an InvalidColumn-kind error.
func InvalidColumnf(loc, format string, args ...interface{}) *Error {
	return newf(InvalidColumn, loc, format, args...)
}

// NotImplementedf builds a NotImplemented-kind error.
func NotImplementedf(loc, format string, args ...interface{}) *Error {
	return newf(NotImplemented, loc, format, args...)
}

// Internalf builds an Internal-kind error.
func Internalf(loc, format string, args ...interface{}) *Error {
	return newf(Internal, loc, format, args...)
}

// Generalf builds a General-kind error.
func Generalf(loc, format string, args ...interface{}) *Error {
	return newf(General, loc, format, args...)
}

// WrapArrow wraps err (from a compute or builder call) as an Arrow-kind error.
func WrapArrow(loc string, err error) *Error { return wrap(Arrow, loc, err) }

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
