package feedparse

import "strings"

// Normalize unescapes literal escape sequences left in extracted text and
// trims surrounding whitespace. Recognized: \", \\, \n, \t, \u0022 and
// \u0027.
//
// The input is scanned once from left to right and every escape is
// consumed exactly once; replacements are never rescanned. An escaped
// backslash is kept as is when collapsing it would manufacture a new escape
// together with what follows (\\n, \\", \\\\), so the output contains no
// escape that Normalize would decode again and
// Normalize(Normalize(s)) == Normalize(s) holds for every s.
func Normalize(s string) string {
	if !strings.Contains(s, `\`) {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		out, n := unescapeAt(s, i)
		b.WriteString(out)
		i += n
	}
	return strings.TrimSpace(b.String())
}

// unescapeAt decodes the sequence starting with the backslash at s[i] and
// returns its replacement and the number of input bytes it consumed.
func unescapeAt(s string, i int) (string, int) {
	rest := s[i+1:]
	switch {
	case strings.HasPrefix(rest, "u0022"):
		return `"`, 6
	case strings.HasPrefix(rest, "u0027"):
		return "'", 6
	case rest == "":
		return `\`, 1
	}
	switch rest[0] {
	case '"':
		return `"`, 2
	case 'n':
		return "\n", 2
	case 't':
		return "\t", 2
	case '\\':
		if formsEscape(s, i+2) {
			return `\\`, 2
		}
		return `\`, 2
	}
	return `\`, 1
}

// formsEscape reports whether a backslash written just before the output
// of s[j:] would read as an escape.
func formsEscape(s string, j int) bool {
	if j >= len(s) {
		return false
	}
	rest := s[j:]
	if rest[0] == '\\' {
		// \n, \t and \u0027 decode to characters a backslash cannot
		// escape.
		next := rest[1:]
		return !(strings.HasPrefix(next, "n") || strings.HasPrefix(next, "t") ||
			strings.HasPrefix(next, "u0027"))
	}
	switch rest[0] {
	case '"', 'n', 't':
		return true
	}
	return strings.HasPrefix(rest, "u0022") || strings.HasPrefix(rest, "u0027")
}
