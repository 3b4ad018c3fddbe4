package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sre-norns/waymark/pkg/grace"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var (
	// ErrTransport error indicates that the root document could not be fetched: the request failed or the server
	// responded with non-2xx status.
	ErrTransport = errors.New("transport error")
	// ErrReferenceNotFound error indicates that the reference document is missing, unreadable or malformed.
	// This is a problem of the test fixture rather than of the server being verified.
	ErrReferenceNotFound = errors.New("reference document not found")
	// ErrComparisonMismatch error indicates that the root document served is different from the reference.
	ErrComparisonMismatch = errors.New("comparison mismatch")
)

// MismatchError lists every difference found between the root document served by a target and the reference.
type MismatchError struct {
	Target string
	Diff   field.ErrorList
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: root document of %s differs from reference in %d place(s)", ErrComparisonMismatch, e.Target, len(e.Diff))
	for _, d := range e.Diff {
		b.WriteString("\n  - ")
		b.WriteString(d.Error())
	}

	return b.String()
}

func (e *MismatchError) Unwrap() error {
	return ErrComparisonMismatch
}

// ReferenceError is returned when a reference document can not be used.
// It implements [grace.Error] to tell a user how to fix the fixture.
type ReferenceError struct {
	Name string
	Err  error
}

var _ grace.Error = (*ReferenceError)(nil)

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrReferenceNotFound, e.Name, e.Err)
}

func (e *ReferenceError) Unwrap() []error {
	return []error{ErrReferenceNotFound, e.Err}
}

func (e *ReferenceError) WhatExpected() string {
	return fmt.Sprintf("readable root document reference %q", e.Name)
}

func (e *ReferenceError) WhatHappened() string {
	return e.Err.Error()
}

func (e *ReferenceError) WhatToDo() string {
	return "check the reference path, or record a new reference from a known-good server with `waymark verify --update`"
}
