package gff

import (
	"bufio"
	"io"
	"strings"
)

// itemQueue buffers emitted items between the push-style Parser and the
// pull-style Reader.
type itemQueue []Item

func (q *itemQueue) Feature(f *Feature)     { *q = append(*q, f) }
func (q *itemQueue) Directive(d *Directive) { *q = append(*q, d) }
func (q *itemQueue) Comment(c *Comment)     { *q = append(*q, c) }
func (q *itemQueue) Sequence(s *Sequence)   { *q = append(*q, s) }

// Reader reads GFF3 items from an input stream. Items already parsed are
// delivered before any error is reported, so a parse error surfaces only
// after everything emitted ahead of it has been read.
type Reader struct {
	r      *bufio.Reader
	parser *Parser
	queue  itemQueue
	err    error
}

// NewReader returns a Reader with DefaultOptions.
func NewReader(r io.Reader) *Reader {
	return NewReaderOptions(r, DefaultOptions())
}

func NewReaderOptions(r io.Reader, o Options) *Reader {
	d := &Reader{r: bufio.NewReader(r)}
	d.parser = NewParser(&d.queue, o)
	return d
}

// Read returns the next item, or io.EOF after the last one.
func (d *Reader) Read() (Item, error) {
	for len(d.queue) == 0 {
		if d.err != nil {
			return nil, d.err
		}
		line, err := d.r.ReadString('\n')
		if len(line) > 0 {
			if perr := d.parser.AddLine(line); perr != nil {
				d.err = perr
				continue
			}
		}
		if err == io.EOF {
			if ferr := d.parser.Finish(); ferr != nil {
				d.err = ferr
			} else {
				d.err = io.EOF
			}
			continue
		}
		if err != nil {
			d.err = err
		}
	}
	it := d.queue[0]
	d.queue = d.queue[1:]
	return it, nil
}

// ReadAll reads items until io.EOF, which it does not report as an error.
func (d *Reader) ReadAll() ([]Item, error) {
	var items []Item
	for {
		it, err := d.Read()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, it)
	}
}

// ParseString parses a complete GFF3 document held in memory. The buffer
// bound is disabled, so referential integrity is checked across the whole
// document, and the first error aborts the parse.
func ParseString(text string, o Options) ([]Item, error) {
	o.BufferSize = -1
	var q itemQueue
	p := NewParser(&q, o)
	for len(text) > 0 {
		var line string
		if i := strings.IndexByte(text, '\n'); i < 0 {
			line, text = text, ""
		} else {
			line, text = text[:i+1], text[i+1:]
		}
		if err := p.AddLine(line); err != nil {
			return nil, err
		}
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return q, nil
}
