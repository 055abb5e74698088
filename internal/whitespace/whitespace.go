// Package whitespace classifies and trims XML whitespace.
package whitespace

// IsXMLWhitespaceByte reports whether b is an XML whitespace character.
func IsXMLWhitespaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// TrimString removes leading and trailing XML whitespace.
// It returns the original string when no trimming is needed.
func TrimString(in string) string {
	start := 0
	end := len(in)
	for start < end && IsXMLWhitespaceByte(in[start]) {
		start++
	}
	for end > start && IsXMLWhitespaceByte(in[end-1]) {
		end--
	}
	if start == 0 && end == len(in) {
		return in
	}
	return in[start:end]
}

// IsAll reports whether the string consists only of XML whitespace.
func IsAll(in string) bool {
	for i := 0; i < len(in); i++ {
		if !IsXMLWhitespaceByte(in[i]) {
			return false
		}
	}
	return true
}
