// Package errs narrows cockroachdb/errors down to the operations this
// codebase needs: wrapping with context, sentinel creation, and marking an
// error with a sentinel so errors.Is crosses layer boundaries.
package errs

import (
	"fmt"
	"strings"

	crdberr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return crdberr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return crdberr.Wrap(err, msg)
}

// Mark attaches markErr as a sentinel of err without changing its message.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return crdberr.Mark(err, markErr)
}

// StackLines renders err with its stack trace, capped at maxLines, shaped
// for a structured log field.
func StackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
