package gff

const hexDigits = "0123456789ABCDEF"

// attrEscapes marks bytes that must be percent-encoded inside attribute
// values; columnEscapes is the same set minus the characters that are legal
// in the other eight columns.
var attrEscapes, columnEscapes [256]bool

func init() {
	for i := 0; i < 0x20; i++ {
		attrEscapes[i] = true
		columnEscapes[i] = true
	}
	for i := 0x7f; i < 0x100; i++ {
		attrEscapes[i] = true
		columnEscapes[i] = true
	}
	attrEscapes['%'] = true
	columnEscapes['%'] = true
	for _, c := range []byte{';', '=', '&', ','} {
		attrEscapes[c] = true
	}
}

// Escape percent-encodes s for use in an attribute value. Control bytes,
// high bytes, tab, newline, carriage return and % ; = & , are encoded;
// everything else, including space, passes through.
func Escape(s string) string {
	return escapeWith(s, &attrEscapes)
}

// EscapeColumn percent-encodes s for use in a non-attribute column. It is
// Escape without the ; = & , set.
func EscapeColumn(s string) string {
	return escapeWith(s, &columnEscapes)
}

func escapeWith(s string, table *[256]bool) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if table[c] {
			out = append(out, '%', hexDigits[c>>4], hexDigits[c&0xf])
		} else {
			out = append(out, c)
		}
	}
	return string(out)
}

// Unescape decodes every %XX hex sequence in s to its raw byte. It is the
// inverse of Escape and EscapeColumn for any input.
func Unescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) {
			hi, lo := unhex(s[i+1]), unhex(s[i+2])
			if hi >= 0 && lo >= 0 {
				out = append(out, byte(hi<<4|lo))
				i += 2
				continue
			}
		}
		out = append(out, c)
	}
	return string(out)
}

func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
