package gff

// FeatureLine is one parsed, tab-delimited GFF3 feature line. A "." or
// empty column parses as nil.
type FeatureLine struct {
	SeqID      *string
	Source     *string
	Type       *string
	Start      *int
	End        *int
	Score      *float64
	Strand     *string
	Phase      *string
	Attributes Attributes

	// Children holds the features whose Parent attribute names one of this
	// line's IDs; Derived holds the same for Derives_from. Both are shared
	// references: one feature can be reachable through several parents.
	Children []*Feature
	Derived  []*Feature
}

// IDs returns the line's ID attribute values.
func (l *FeatureLine) IDs() []string { return l.Attributes.Get("ID") }

// Parents returns the line's Parent attribute values.
func (l *FeatureLine) Parents() []string { return l.Attributes.Get("Parent") }

// DerivesFrom returns the line's Derives_from attribute values.
func (l *FeatureLine) DerivesFrom() []string { return l.Attributes.Get("Derives_from") }

// Feature is every location of one annotated feature: all feature lines
// sharing an ID, in input order. Multi-line features, such as a spliced
// CDS, have several locations; most features have one.
type Feature struct {
	Lines []*FeatureLine
}

// ID returns the first ID attribute of the feature's first location, or ""
// if the feature carries no ID.
func (f *Feature) ID() string {
	if len(f.Lines) == 0 {
		return ""
	}
	if ids := f.Lines[0].IDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Type returns the type column of the feature's first location, or "".
func (f *Feature) Type() string {
	if len(f.Lines) == 0 || f.Lines[0].Type == nil {
		return ""
	}
	return *f.Lines[0].Type
}

// Directive is a ## metadata line. Name is the first token after the
// hashes and Value the rest of the line. The sequence-region and
// genome-build directives additionally fill their parsed fields.
type Directive struct {
	Name  string
	Value string

	// sequence-region
	SeqID string
	Start string
	End   string

	// genome-build
	Source    string
	BuildName string
}

// Comment is a # comment line with the leading whitespace removed.
type Comment struct {
	Text string
}

// Sequence is one FASTA record from the sequence section of a file.
type Sequence struct {
	ID          string
	Description string
	Seq         string
}

// Item is one parsed unit of a GFF3 document: *Feature, *Directive,
// *Comment or *Sequence.
type Item interface {
	item()
}

func (*Feature) item()   {}
func (*Directive) item() {}
func (*Comment) item()   {}
func (*Sequence) item()  {}
