package gff

import (
	"bufio"
	"io"
	"strings"
)

// Writer writes a stream of items as GFF3 text. Unlike Format, it
// maintains document-level state: a ##gff-version directive at the top, a
// ##FASTA directive before the first sequence, and ### synchronization
// marks at a configurable line interval so downstream parsers can bound
// their buffering.
//
// Call Flush after the last item.
type Writer struct {
	// MinSyncLines is the number of output lines to accumulate before a
	// ### mark is inserted. Zero or negative disables the marks. Marks are
	// suppressed once FASTA output has begun.
	MinSyncLines int

	// InsertVersionDirective writes "##gff-version 3" before the first
	// item unless that item is itself a gff-version directive.
	InsertVersionDirective bool

	w         *bufio.Writer
	wrote     bool
	fastaMode bool
	sinceSync int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		MinSyncLines:           100,
		InsertVersionDirective: true,
		w:                      bufio.NewWriter(w),
	}
}

func (w *Writer) Write(it Item) error {
	if !w.wrote && w.InsertVersionDirective {
		if d, ok := it.(*Directive); !ok || d.Name != "gff-version" {
			w.w.WriteString("##gff-version 3\n")
		}
	}
	if _, ok := it.(*Sequence); ok && !w.fastaMode {
		w.w.WriteString("##FASTA\n")
		w.fastaMode = true
	}

	s := FormatItem(it)
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}

	// Inserted directives and marks do not count toward the interval,
	// only formatted item lines do. The mark lands after the item that
	// crosses the threshold.
	if !w.fastaMode && w.MinSyncLines > 0 {
		if w.sinceSync >= w.MinSyncLines {
			if _, err := w.w.WriteString("###\n"); err != nil {
				return err
			}
			w.sinceSync = 0
		} else {
			w.sinceSync += strings.Count(s, "\n")
		}
	}
	w.wrote = true
	return nil
}

// WriteAll writes every item and flushes.
func (w *Writer) WriteAll(items []Item) error {
	for _, it := range items {
		if err := w.Write(it); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}
