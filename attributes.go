package gff

import "strings"

// Attribute is one tag of the ninth column with its values.
type Attribute struct {
	Tag    string
	Values []string
}

// Attributes holds a feature line's attribute column in input order.
// A repeated tag merges its values into the existing entry.
type Attributes []Attribute

// Get returns the values of tag, or nil if the tag is absent.
func (a Attributes) Get(tag string) []string {
	for i := range a {
		if a[i].Tag == tag {
			return a[i].Values
		}
	}
	return nil
}

// Add appends values under tag, merging with an existing entry.
func (a *Attributes) Add(tag string, values ...string) {
	for i := range *a {
		if (*a)[i].Tag == tag {
			(*a)[i].Values = append((*a)[i].Values, values...)
			return
		}
	}
	*a = append(*a, Attribute{Tag: tag, Values: values})
}

// ParseAttributes parses a ninth-column attribute string. Entries with no =
// or an empty value are dropped; values split on commas and are trimmed and
// unescaped. "." and the empty string parse to nil.
func ParseAttributes(s string) Attributes {
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	if s == "" || s == "." {
		return nil
	}
	var attrs Attributes
	for _, entry := range strings.Split(s, ";") {
		tag, val, ok := strings.Cut(entry, "=")
		if !ok || val == "" {
			continue
		}
		tag = Unescape(strings.TrimSpace(tag))
		parts := strings.Split(val, ",")
		values := make([]string, len(parts))
		for i, v := range parts {
			values[i] = Unescape(strings.TrimSpace(v))
		}
		attrs.Add(tag, values...)
	}
	return attrs
}

// FormatAttributes renders attrs as a ninth-column string, escaping tags and
// values. An empty Attributes renders as ".".
func FormatAttributes(attrs Attributes) string {
	parts := make([]string, 0, len(attrs))
	for _, at := range attrs {
		if len(at.Values) == 0 {
			continue
		}
		vals := make([]string, len(at.Values))
		for i, v := range at.Values {
			vals[i] = Escape(v)
		}
		parts = append(parts, Escape(at.Tag)+"="+strings.Join(vals, ","))
	}
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, ";")
}
