package gff

import (
	"reflect"
	"testing"
)

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Attributes
	}{
		{"simple", "foo=bar", Attributes{{Tag: "foo", Values: []string{"bar"}}}},
		{"null", ".", nil},
		{"empty", "", nil},
		{"multivalue", "Parent=AF2312,AB2812", Attributes{
			{Tag: "Parent", Values: []string{"AF2312", "AB2812"}},
		}},
		{"two tags", "ID=mrna0001;Name=sonichedgehog", Attributes{
			{Tag: "ID", Values: []string{"mrna0001"}},
			{Tag: "Name", Values: []string{"sonichedgehog"}},
		}},
		// entries without = or with an empty value are dropped
		{"bare word dropped", "Target=Motif;rnd-family-27", Attributes{
			{Tag: "Target", Values: []string{"Motif"}},
		}},
		{"empty value dropped", "ID=;Name=x", Attributes{
			{Tag: "Name", Values: []string{"x"}},
		}},
		// values are trimmed, then unescaped
		{"trimmed", "Note= hello , world ", Attributes{
			{Tag: "Note", Values: []string{"hello", "world"}},
		}},
		{"escaped", "Note=a%3Bb%2Cc", Attributes{
			{Tag: "Note", Values: []string{"a;b,c"}},
		}},
		// only the first = splits tag from value
		{"equals in value", "Target=EST%20A=5", Attributes{
			{Tag: "Target", Values: []string{"EST A=5"}},
		}},
		// repeated tags merge in first-seen position
		{"repeated tag", "Alias=a;ID=x;Alias=b", Attributes{
			{Tag: "Alias", Values: []string{"a", "b"}},
			{Tag: "ID", Values: []string{"x"}},
		}},
	}
	for _, tc := range tests {
		got := ParseAttributes(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: ParseAttributes(%q) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestFormatAttributes(t *testing.T) {
	tests := []struct {
		name string
		in   Attributes
		want string
	}{
		{"empty", nil, "."},
		{"simple", Attributes{{Tag: "foo", Values: []string{"bar"}}}, "foo=bar"},
		{"multivalue", Attributes{{Tag: "Parent", Values: []string{"a", "b"}}}, "Parent=a,b"},
		{"order preserved", Attributes{
			{Tag: "ID", Values: []string{"x"}},
			{Tag: "Alias", Values: []string{"y"}},
		}, "ID=x;Alias=y"},
		{"escaping", Attributes{{Tag: "Note", Values: []string{"a;b=c"}}}, "Note=a%3Bb%3Dc"},
		{"valueless skipped", Attributes{
			{Tag: "empty"},
			{Tag: "ID", Values: []string{"x"}},
		}, "ID=x"},
	}
	for _, tc := range tests {
		if got := FormatAttributes(tc.in); got != tc.want {
			t.Errorf("%s: FormatAttributes = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestAttributesGet(t *testing.T) {
	attrs := ParseAttributes("ID=gene1;Alias=a,b")
	if got := attrs.Get("ID"); len(got) != 1 || got[0] != "gene1" {
		t.Errorf("Get(ID) = %v", got)
	}
	if got := attrs.Get("Alias"); len(got) != 2 {
		t.Errorf("Get(Alias) = %v", got)
	}
	if got := attrs.Get("Parent"); got != nil {
		t.Errorf("Get(Parent) = %v, want nil", got)
	}
}

func TestAttributesAdd(t *testing.T) {
	var attrs Attributes
	attrs.Add("ID", "gene1")
	attrs.Add("Alias", "a")
	attrs.Add("Alias", "b", "c")
	if got := attrs.Get("Alias"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Get(Alias) = %v", got)
	}
	if len(attrs) != 2 {
		t.Errorf("got %d attributes, want 2", len(attrs))
	}
}
