package gff

import (
	"regexp"
	"strings"
	"unicode"
)

var fastaHeaderRx = regexp.MustCompile(`^\s*>\s*(\S+)\s*(.*)`)

// fastaParser accumulates the FASTA section at the end of a GFF3 file.
// Only the sequence currently being built is held in memory; completed
// records go straight to emit.
type fastaParser struct {
	emit    func(*Sequence)
	current *Sequence
	seq     strings.Builder
}

func newFASTAParser(emit func(*Sequence)) *fastaParser {
	return &fastaParser{emit: emit}
}

func (fp *fastaParser) addLine(line string) {
	if m := fastaHeaderRx.FindStringSubmatch(line); m != nil {
		fp.flush()
		fp.current = &Sequence{
			ID:          m[1],
			Description: strings.TrimRightFunc(m[2], unicode.IsSpace),
		}
		return
	}
	if strings.TrimSpace(line) == "" {
		return
	}
	if fp.current == nil {
		return
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case ' ', '\t', '\n', '\v', '\f', '\r':
		default:
			fp.seq.WriteByte(c)
		}
	}
}

func (fp *fastaParser) flush() {
	if fp.current == nil {
		return
	}
	fp.current.Seq = fp.seq.String()
	fp.emit(fp.current)
	fp.current = nil
	fp.seq.Reset()
}

func (fp *fastaParser) finish() {
	fp.flush()
}
