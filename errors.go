package gff

import (
	"fmt"
	"strings"
)

// SyntaxError reports a line that matches no GFF3 line shape, or a feature
// line with a malformed numeric column.
type SyntaxError struct {
	Line   int // 1-based line number
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("gff: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// TypeMismatchError reports two locations of a multi-line feature that
// disagree on the type column.
type TypeMismatchError struct {
	Line     int
	ID       string
	Type     string // type on the offending line
	Existing string // type on the locations seen before it
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("gff: line %d: multi-line feature %q has inconsistent types: %q, %q",
		e.Line, e.ID, e.Type, e.Existing)
}

// ReferentialIntegrityError reports Parent or Derives_from targets that
// were never defined in scope: the file, or the span between ### marks.
// IDs is sorted.
type ReferentialIntegrityError struct {
	IDs []string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("gff: some features reference other features that do not exist in the file (or in the same ### scope): %s",
		strings.Join(e.IDs, ","))
}
