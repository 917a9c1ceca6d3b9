package gff

import (
	"strconv"
	"strings"
)

// FormatItem renders any parsed item back to its GFF3 text, including the
// trailing newline.
func FormatItem(it Item) string {
	switch v := it.(type) {
	case *Feature:
		return FormatFeature(v)
	case *Directive:
		return FormatDirective(v)
	case *Comment:
		return FormatComment(v)
	case *Sequence:
		return FormatSequence(v)
	}
	return ""
}

// Format renders a slice of items in order. No version directive or sync
// marks are added; use Writer for that.
func Format(items []Item) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(FormatItem(it))
	}
	return b.String()
}

// FormatFeature renders a feature with all of its attached child and
// derived subtrees, one line per location. A line byte-identical to one
// already rendered in the same call is skipped, since a subtree can be
// reachable through more than one parent.
func FormatFeature(f *Feature) string {
	var b strings.Builder
	formatFeatureInto(&b, f, make(map[string]bool), make(map[*Feature]bool))
	return b.String()
}

func formatFeatureInto(b *strings.Builder, f *Feature, lines map[string]bool, visited map[*Feature]bool) {
	if visited[f] {
		return
	}
	visited[f] = true
	for _, l := range f.Lines {
		s := formatLine(l)
		if !lines[s] {
			lines[s] = true
			b.WriteString(s)
		}
		for _, c := range l.Children {
			formatFeatureInto(b, c, lines, visited)
		}
		for _, d := range l.Derived {
			formatFeatureInto(b, d, lines, visited)
		}
	}
}

func formatLine(l *FeatureLine) string {
	cols := [9]string{
		colString(l.SeqID),
		colString(l.Source),
		colString(l.Type),
		intString(l.Start),
		intString(l.End),
		floatString(l.Score),
		colString(l.Strand),
		colString(l.Phase),
		FormatAttributes(l.Attributes),
	}
	return strings.Join(cols[:], "\t") + "\n"
}

func colString(p *string) string {
	if p == nil {
		return "."
	}
	return EscapeColumn(*p)
}

func intString(p *int) string {
	if p == nil {
		return "."
	}
	return strconv.Itoa(*p)
}

func floatString(p *float64) string {
	if p == nil {
		return "."
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}

// FormatDirective renders "##name value" with the value omitted when
// empty.
func FormatDirective(d *Directive) string {
	if d.Value == "" {
		return "##" + d.Name + "\n"
	}
	return "##" + d.Name + " " + d.Value + "\n"
}

func FormatComment(c *Comment) string {
	return "# " + c.Text + "\n"
}

// FormatSequence renders a FASTA record with the whole sequence on one
// line.
func FormatSequence(s *Sequence) string {
	var b strings.Builder
	b.WriteByte('>')
	b.WriteString(s.ID)
	if s.Description != "" {
		b.WriteByte(' ')
		b.WriteString(s.Description)
	}
	b.WriteByte('\n')
	b.WriteString(s.Seq)
	b.WriteByte('\n')
	return b.String()
}
