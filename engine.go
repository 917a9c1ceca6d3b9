package gff

import (
	"sort"
	"strings"
	"unicode"
)

// Handler receives parsed items as the parser finishes them. Methods are
// called synchronously, in emission order.
type Handler interface {
	Feature(*Feature)
	Directive(*Directive)
	Comment(*Comment)
	Sequence(*Sequence)
}

// Options selects which item kinds a parse delivers and how references are
// resolved. Kinds that are switched off are still parsed, so line numbers
// and referential checks behave identically; they are just not delivered.
type Options struct {
	Features   bool
	Directives bool
	Comments   bool
	Sequences  bool

	// DisableDerivesFrom turns off resolution of Derives_from references:
	// they are neither linked nor checked at flush time.
	DisableDerivesFrom bool

	// BufferSize bounds the number of top-level features held in memory
	// before the oldest is emitted. Zero means the default of 1000;
	// negative means unbounded.
	BufferSize int
}

// DefaultOptions returns the options used by NewReader: features and
// sequences delivered, directives and comments discarded, and a buffer of
// 1000 top-level features.
func DefaultOptions() Options {
	return Options{Features: true, Sequences: true, BufferSize: 1000}
}

const defaultBufferSize = 1000

const (
	stateAccepting = iota
	stateFASTA
	stateError
)

// Parser is the incremental GFF3 parser. Lines are fed one at a time with
// AddLine, in file order, and Finish must be called after the last line.
// Any returned error is fatal: the parser ignores all further input.
//
// A Parser owns all of its state; nothing is shared between instances.
type Parser struct {
	handler Handler
	opts    Options
	bound   int // resolved buffer size, < 0 for unbounded

	state   int
	lineNum int
	err     error

	// Features buffered while their references may still be extended.
	// byID indexes every identifier of every buffered feature; topLevel
	// is the FIFO emission queue of features with no resolved parent;
	// orphans holds features whose reference target has not been seen;
	// completed guards against recording one (id, relation, target) link
	// twice when a multi-line feature repeats a reference.
	byID      map[string]*Feature
	topLevel  []*Feature
	orphans   map[string]*orphanSet
	completed map[string]map[string]bool

	fasta *fastaParser
}

type orphanSet struct {
	parents []*Feature
	derives []*Feature
}

// NewParser returns a parser that delivers items to h, which must not be
// nil.
func NewParser(h Handler, o Options) *Parser {
	bound := o.BufferSize
	if bound == 0 {
		bound = defaultBufferSize
	}
	return &Parser{
		handler:   h,
		opts:      o,
		bound:     bound,
		byID:      make(map[string]*Feature),
		orphans:   make(map[string]*orphanSet),
		completed: make(map[string]map[string]bool),
	}
}

// AddLine processes one line of text, with or without its trailing
// newline. Lines must arrive in file order.
func (p *Parser) AddLine(line string) error {
	p.lineNum++
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	switch p.state {
	case stateFASTA:
		p.fasta.addLine(line)
		return nil
	case stateError:
		return p.err
	}

	switch {
	case featureLineRx.MatchString(line):
		return p.bufferLine(line)
	case hashLineRx.MatchString(line):
		return p.hashLine(line)
	case blankLineRx.MatchString(line):
		return nil
	case fastaStartRx.MatchString(line):
		if err := p.startFASTA(); err != nil {
			return err
		}
		p.fasta.addLine(line)
		return nil
	default:
		return p.fail(&SyntaxError{Line: p.lineNum, Text: line, Reason: "cannot determine line type"})
	}
}

// Finish flushes everything still under construction and reports dangling
// references.
func (p *Parser) Finish() error {
	switch p.state {
	case stateError:
		return p.err
	case stateFASTA:
		p.fasta.finish()
		return nil
	}
	return p.flush()
}

func (p *Parser) fail(err error) error {
	p.state = stateError
	p.err = err
	return err
}

func (p *Parser) hashLine(line string) error {
	m := hashLineRx.FindStringSubmatch(line)
	hashes, contents := m[1], m[2]
	switch {
	case len(hashes) >= 3:
		// ### synchronization mark: everything buffered is complete
		return p.flush()
	case len(hashes) == 2:
		d := ParseDirective(line)
		if d == nil {
			return nil
		}
		if d.Name == "FASTA" {
			return p.startFASTA()
		}
		if p.opts.Directives {
			p.handler.Directive(d)
		}
		return nil
	default:
		if p.opts.Comments {
			p.handler.Comment(&Comment{Text: strings.TrimLeftFunc(contents, unicode.IsSpace)})
		}
		return nil
	}
}

func (p *Parser) startFASTA() error {
	if err := p.flush(); err != nil {
		return err
	}
	p.state = stateFASTA
	p.fasta = newFASTAParser(func(s *Sequence) {
		if p.opts.Sequences {
			p.handler.Sequence(s)
		}
	})
	return nil
}

// bufferLine merges one feature line into the forest under construction.
func (p *Parser) bufferLine(line string) error {
	fl, err := parseFeatureLine(line, p.lineNum)
	if err != nil {
		return p.fail(err)
	}

	ids := fl.IDs()
	parents := fl.Parents()
	var derives []string
	if !p.opts.DisableDerivesFrom {
		derives = fl.DerivesFrom()
	}

	if len(ids) == 0 && len(parents) == 0 && len(derives) == 0 {
		// nothing can reference or extend this line later
		p.emitFeature(&Feature{Lines: []*FeatureLine{fl}})
		return nil
	}

	var feat *Feature
	for _, id := range ids {
		if existing, ok := p.byID[id]; ok {
			// another location of a feature already under construction
			last := existing.Lines[len(existing.Lines)-1]
			if !equalType(last.Type, fl.Type) {
				return p.fail(&TypeMismatchError{
					Line:     p.lineNum,
					ID:       id,
					Type:     typeString(fl.Type),
					Existing: typeString(last.Type),
				})
			}
			existing.Lines = append(existing.Lines, fl)
			feat = existing
			continue
		}

		feat = &Feature{Lines: []*FeatureLine{fl}}
		p.makeRoom(1)
		if len(parents) == 0 && len(derives) == 0 {
			p.topLevel = append(p.topLevel, feat)
		}
		p.byID[id] = feat
		p.resolveReferencesTo(feat, id)
	}

	if feat == nil {
		feat = &Feature{Lines: []*FeatureLine{fl}}
	}
	p.resolveReferencesFrom(feat, parents, derives, ids)
	return nil
}

// makeRoom emits the oldest top-level features until n more fit under the
// buffer bound, purging each emitted subtree from the indices.
func (p *Parser) makeRoom(n int) {
	if p.bound < 0 {
		return
	}
	for len(p.topLevel)+n > p.bound {
		f := p.topLevel[0]
		p.topLevel = p.topLevel[1:]
		p.emitFeature(f)
		p.unbuffer(f, make(map[*Feature]bool))
	}
}

// unbuffer drops every identifier of f's subtree from the by-ID map and
// the completed-link set; nothing outside an emitted subtree can legally
// reference into it again.
func (p *Parser) unbuffer(f *Feature, seen map[*Feature]bool) {
	if seen[f] {
		return
	}
	seen[f] = true
	for _, l := range f.Lines {
		for _, id := range l.IDs() {
			delete(p.byID, id)
			delete(p.completed, id)
		}
		for _, c := range l.Children {
			p.unbuffer(c, seen)
		}
		for _, d := range l.Derived {
			p.unbuffer(d, seen)
		}
	}
}

// flush emits all buffered top-level features in arrival order and clears
// the indices. Unresolved orphans left at that point are dangling
// references and fail the parse.
func (p *Parser) flush() error {
	for _, f := range p.topLevel {
		p.emitFeature(f)
	}
	p.topLevel = nil
	p.byID = make(map[string]*Feature)
	p.completed = make(map[string]map[string]bool)
	if len(p.orphans) > 0 {
		ids := make([]string, 0, len(p.orphans))
		for id := range p.orphans {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		p.orphans = make(map[string]*orphanSet)
		return p.fail(&ReferentialIntegrityError{IDs: ids})
	}
	return nil
}

// resolveReferencesTo attaches features that were waiting on id to every
// location of the newly registered feature.
func (p *Parser) resolveReferencesTo(f *Feature, id string) {
	refs, ok := p.orphans[id]
	if !ok {
		return
	}
	for _, child := range refs.parents {
		for _, l := range f.Lines {
			l.Children = append(l.Children, child)
		}
	}
	for _, der := range refs.derives {
		for _, l := range f.Lines {
			l.Derived = append(l.Derived, der)
		}
	}
	delete(p.orphans, id)
}

// resolveReferencesFrom links feat under each of its Parent and
// Derives_from targets, or records it as an orphan of targets not yet
// seen. The completed-link set keeps a repeated reference on another
// location of the same feature from linking twice.
func (p *Parser) resolveReferencesFrom(feat *Feature, parents, derives, ids []string) {
	for _, target := range parents {
		if p.recordLink(ids, "Parent", target) {
			continue
		}
		if other, ok := p.byID[target]; ok {
			for _, l := range other.Lines {
				l.Children = append(l.Children, feat)
			}
		} else {
			o := p.orphan(target)
			o.parents = append(o.parents, feat)
		}
	}
	for _, target := range derives {
		if p.recordLink(ids, "Derives_from", target) {
			continue
		}
		if other, ok := p.byID[target]; ok {
			for _, l := range other.Lines {
				l.Derived = append(l.Derived, feat)
			}
		} else {
			o := p.orphan(target)
			o.derives = append(o.derives, feat)
		}
	}
}

// recordLink records the (id, relation, target) triple for every id and
// reports whether any id had already recorded it. A line with no IDs is
// never deduplicated.
func (p *Parser) recordLink(ids []string, relation, target string) bool {
	key := relation + "," + target
	already := false
	for _, id := range ids {
		m := p.completed[id]
		if m == nil {
			m = make(map[string]bool)
			p.completed[id] = m
		}
		if m[key] {
			already = true
		}
		m[key] = true
	}
	return already
}

func (p *Parser) orphan(target string) *orphanSet {
	o, ok := p.orphans[target]
	if !ok {
		o = &orphanSet{}
		p.orphans[target] = o
	}
	return o
}

func (p *Parser) emitFeature(f *Feature) {
	if p.opts.Features {
		p.handler.Feature(f)
	}
}

func equalType(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func typeString(t *string) string {
	if t == nil {
		return ""
	}
	return *t
}
