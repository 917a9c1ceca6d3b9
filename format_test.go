package gff

import (
	"strings"
	"testing"
)

func sp(s string) *string   { v := s; return &v }
func ip(i int) *int         { v := i; return &v }
func fp(f float64) *float64 { v := f; return &v }

func TestFormatFeatureColumns(t *testing.T) {
	f := &Feature{Lines: []*FeatureLine{{
		SeqID:  sp("ctgA"),
		Source: sp("est"),
		Type:   sp("EST_match"),
		Start:  ip(1050),
		End:    ip(3202),
		Score:  fp(0.5),
		Strand: sp("+"),
		Phase:  sp("0"),
		Attributes: Attributes{
			{Tag: "ID", Values: []string{"Match1"}},
			{Tag: "Name", Values: []string{"agt830.5"}},
		},
	}}}
	want := "ctgA\test\tEST_match\t1050\t3202\t0.5\t+\t0\tID=Match1;Name=agt830.5\n"
	if got := FormatFeature(f); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeatureNullColumns(t *testing.T) {
	f := &Feature{Lines: []*FeatureLine{{SeqID: sp("ctgA"), Type: sp("remark")}}}
	want := "ctgA\t.\tremark\t.\t.\t.\t.\t.\t.\n"
	if got := FormatFeature(f); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFeatureEscapesColumns(t *testing.T) {
	f := &Feature{Lines: []*FeatureLine{{
		SeqID: sp("ctg A"),
		Type:  sp("has\ttab"),
	}}}
	got := FormatFeature(f)
	if !strings.HasPrefix(got, "ctg A\t.\thas%09tab\t") {
		t.Errorf("got %q", got)
	}
}

func TestFormatScoreRendering(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.5, "0.5"},
		{2, "2"},
		{1e-5, "1e-05"},
	}
	for _, tc := range tests {
		f := &Feature{Lines: []*FeatureLine{{Score: fp(tc.score)}}}
		cols := strings.Split(FormatFeature(f), "\t")
		if cols[5] != tc.want {
			t.Errorf("score %v rendered as %q, want %q", tc.score, cols[5], tc.want)
		}
	}
}

// A subtree reachable through two parents is rendered once per format
// call.
func TestFormatFeatureDeduplicatesSharedSubtrees(t *testing.T) {
	doc := "ctgA\t.\tgene\t1\t100\t.\t+\t.\tID=top\n" +
		"ctgA\t.\tmRNA\t1\t50\t.\t+\t.\tID=p1;Parent=top\n" +
		"ctgA\t.\tmRNA\t50\t100\t.\t+\t.\tID=p2;Parent=top\n" +
		"ctgA\t.\texon\t10\t40\t.\t+\t.\tID=c;Parent=p1,p2\n"
	items, err := ParseString(doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	out := FormatFeature(items[0].(*Feature))
	if n := strings.Count(out, "\tID=c;"); n != 1 {
		t.Errorf("shared child rendered %d times:\n%s", n, out)
	}
	if len(strings.Split(strings.TrimSuffix(out, "\n"), "\n")) != 4 {
		t.Errorf("unexpected line count:\n%s", out)
	}
}

func TestFormatFeatureMultiLocationChild(t *testing.T) {
	// the child attaches to every location of its two-location parent,
	// but must render only once
	doc := "ctgA\t.\tCDS\t1\t50\t.\t+\t0\tID=p\n" +
		"ctgA\t.\tCDS\t60\t100\t.\t+\t0\tID=p\n" +
		"ctgA\t.\texon\t1\t100\t.\t+\t.\tID=c;Parent=p\n"
	items, err := ParseString(doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	out := FormatFeature(items[0].(*Feature))
	if n := strings.Count(out, "\tID=c"); n != 1 {
		t.Errorf("child rendered %d times:\n%s", n, out)
	}
}

func TestFormatDirective(t *testing.T) {
	if got := FormatDirective(&Directive{Name: "gff-version", Value: "3"}); got != "##gff-version 3\n" {
		t.Errorf("got %q", got)
	}
	if got := FormatDirective(&Directive{Name: "FASTA"}); got != "##FASTA\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatComment(t *testing.T) {
	if got := FormatComment(&Comment{Text: "hello"}); got != "# hello\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatSequence(t *testing.T) {
	s := &Sequence{ID: "ctgA", Description: "test contig", Seq: "ACGT"}
	if got := FormatSequence(s); got != ">ctgA test contig\nACGT\n" {
		t.Errorf("got %q", got)
	}
	s = &Sequence{ID: "ctgB", Seq: "NN"}
	if got := FormatSequence(s); got != ">ctgB\nNN\n" {
		t.Errorf("got %q", got)
	}
}

// For a document containing no FASTA section or sync marks, parsing and
// formatting reproduce the input byte for byte.
func TestFormatRoundTripIdentity(t *testing.T) {
	doc := "##gff-version 3\n" +
		"##sequence-region ctg123 1 1497228\n" +
		"# stray note\n" +
		"ctg123\t.\tgene\t1000\t9000\t.\t+\t.\tID=gene00001;Name=EDEN\n" +
		"ctg123\t.\tmRNA\t1050\t9000\t.\t+\t.\tID=mRNA00001;Parent=gene00001\n"
	items, err := ParseString(doc, allOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(items); got != doc {
		t.Errorf("round trip drifted:\n got %q\nwant %q", got, doc)
	}
}

func TestFormatIdempotent(t *testing.T) {
	once := func(text string) string {
		items, err := ParseString(text, allOptions())
		if err != nil {
			t.Fatal(err)
		}
		return Format(items)
	}
	first := once(sampleDoc)
	if second := once(first); second != first {
		t.Errorf("format not idempotent:\n first %q\nsecond %q", first, second)
	}
}
