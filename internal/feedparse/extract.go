package feedparse

import "regexp"

var (
	itemsOpen = regexp.MustCompile(`"items"\s*:\s*\[`)
	childOpen = regexp.MustCompile(`"childItems"\s*:\s*\[`)
)

// Extract returns the raw contents of the "items" array without decoding
// the document around it. Field order and whitespace do not matter. When
// the payload is cut off before the array closes, the region runs to the
// end of the payload.
func Extract(raw string) (string, error) {
	return arrayContents(raw, itemsOpen)
}

// arrayContents locates the array opened by open and returns the text
// between its brackets.
func arrayContents(s string, open *regexp.Regexp) (string, error) {
	loc := open.FindStringIndex(s)
	if loc == nil {
		return "", ErrContainerNotFound
	}
	start := loc[1]
	end := closingBracket(s, start)
	if end < 0 {
		return s[start:], nil
	}
	return s[start:end], nil
}

// closingBracket scans from start, just past an opening bracket, for the
// index of the bracket that balances it. Quoted text is skipped with the
// same quote tolerance as the quote-balance rule, so an unescaped quote in
// a value does not flip the string state. Returns -1 when the input ends
// first.
func closingBracket(s string, start int) int {
	depth := 1
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case c == '\\':
				i++
			case c == '"' && closesAny(s[i+1:]):
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
