package gff

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"\t", "%09"},
		{"\n", "%0A"},
		{"a;b", "a%3Bb"},
		{"a=b", "a%3Db"},
		{"a&b", "a%26b"},
		{"a,b", "a%2Cb"},
		{"100%", "100%25"},
		{"with space", "with space"},
		{"del\x7f", "del%7F"},
		{"high\xff", "high%FF"},
	}
	for _, tc := range tests {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{";", ";"},
		{"=", "="},
		{"&", "&"},
		{",", ","},
		{"\t", "%09"},
		{"100%", "100%25"},
		{"ctgA", "ctgA"},
	}
	for _, tc := range tests {
		if got := EscapeColumn(tc.in); got != tc.want {
			t.Errorf("EscapeColumn(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"%09", "\t"},
		{"a%3Bb", "a;b"},
		{"%25", "%"},
		{"%2c", ","},
		// malformed escapes pass through untouched
		{"%", "%"},
		{"%2", "%2"},
		{"%zz", "%zz"},
		{"50%-ish", "50%-ish"},
	}
	for _, tc := range tests {
		if got := Unescape(tc.in); got != tc.want {
			t.Errorf("Unescape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	inputs := []string{
		"plain",
		"tab\there",
		"semi;eq=amp&comma,percent%",
		"\x00\x01\x1f\x7f\xff",
		"newline\nand return\r",
		"mixed ctgA;Parent=gene%00123",
	}
	for _, s := range inputs {
		if got := Unescape(Escape(s)); got != s {
			t.Errorf("Unescape(Escape(%q)) = %q", s, got)
		}
		if got := Unescape(EscapeColumn(s)); got != s {
			t.Errorf("Unescape(EscapeColumn(%q)) = %q", s, got)
		}
	}
}
