package gff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	featureLineRx = regexp.MustCompile(`^\s*[^#\s>]`)
	hashLineRx    = regexp.MustCompile(`^\s*(#+)(.*)`)
	blankLineRx   = regexp.MustCompile(`^\s*$`)
	fastaStartRx  = regexp.MustCompile(`^\s*>`)
	directiveRx   = regexp.MustCompile(`^\s*##\s*(\S+)\s*(.*)`)
)

// ParseDirective parses a ## directive line. It returns nil if the line
// does not carry a directive name.
func ParseDirective(line string) *Directive {
	m := directiveRx.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	d := &Directive{Name: m[1]}
	contents := strings.TrimSuffix(m[2], "\n")
	contents = strings.TrimSuffix(contents, "\r")
	d.Value = contents
	switch d.Name {
	case "sequence-region":
		fields := strings.Fields(contents)
		if len(fields) > 0 {
			d.SeqID = fields[0]
		}
		if len(fields) > 1 {
			d.Start = digits(fields[1])
		}
		if len(fields) > 2 {
			d.End = digits(fields[2])
		}
	case "genome-build":
		fields := strings.Fields(contents)
		if len(fields) > 0 {
			d.Source = fields[0]
		}
		if len(fields) > 1 {
			d.BuildName = fields[1]
		}
	}
	return d
}

func digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// parseFeatureLine splits a feature line into its nine columns. Missing
// trailing columns parse as nil, as do "." and empty columns; extra
// columns are ignored.
func parseFeatureLine(line string, num int) (*FeatureLine, error) {
	cols := strings.Split(line, "\t")
	f := &FeatureLine{
		SeqID:  unescapeColumn(column(cols, 0)),
		Source: unescapeColumn(column(cols, 1)),
		Type:   unescapeColumn(column(cols, 2)),
		Strand: column(cols, 6),
		Phase:  column(cols, 7),
	}
	if s := column(cols, 3); s != nil {
		v, err := strconv.Atoi(*s)
		if err != nil {
			return nil, &SyntaxError{Line: num, Text: line, Reason: "start column is not an integer"}
		}
		f.Start = &v
	}
	if s := column(cols, 4); s != nil {
		v, err := strconv.Atoi(*s)
		if err != nil {
			return nil, &SyntaxError{Line: num, Text: line, Reason: "end column is not an integer"}
		}
		f.End = &v
	}
	if s := column(cols, 5); s != nil {
		v, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			return nil, &SyntaxError{Line: num, Text: line, Reason: "score column is not a number"}
		}
		f.Score = &v
	}
	if s := column(cols, 8); s != nil {
		f.Attributes = ParseAttributes(*s)
	}
	return f, nil
}

func column(cols []string, i int) *string {
	if i >= len(cols) || cols[i] == "." || cols[i] == "" {
		return nil
	}
	s := cols[i]
	return &s
}

func unescapeColumn(s *string) *string {
	if s == nil {
		return nil
	}
	u := Unescape(*s)
	return &u
}
