package feedparse

import "regexp"

const idToken = `("(?:[^"\\]|\\.)*"|[^,}\s]+)`

var (
	// optionRecord is one {"OP_ID":…,"OP_NAME":"…"} object.
	optionRecord = regexp.MustCompile(`\{\s*"OP_ID"\s*:\s*` + idToken + `\s*,\s*"OP_NAME"\s*:\s*"([\s\S]*?)"\s*(?:,\s*"[A-Za-z_]+"\s*:[^{}]*)?\}`)

	looseOptionID   = regexp.MustCompile(`"OP_ID"\s*:\s*` + idToken)
	looseOptionName = textField("OP_NAME")
)

// ParseOptions extracts option records from a childItems region in match
// order. When no whole record matches, ids and names are paired by
// position instead, which recovers objects whose members are reordered or
// split. Ids that appear without a name come back without text so the
// caller can count them as dropped.
func ParseOptions(region string) []rawOption {
	ids := looseOptionID.FindAllStringSubmatch(region, -1)

	matches := optionRecord.FindAllStringSubmatch(region, -1)
	if len(matches) > 0 {
		opts := make([]rawOption, 0, len(ids))
		for _, m := range matches {
			opts = append(opts, rawOption{id: unquoteToken(m[1]), text: fieldText(m[2]), hasText: true})
		}
		for range len(ids) - len(matches) {
			opts = append(opts, rawOption{})
		}
		return opts
	}

	names := looseOptionName.FindAllStringSubmatch(region, -1)
	opts := make([]rawOption, 0, len(ids))
	for i, m := range ids {
		op := rawOption{id: unquoteToken(m[1])}
		if i < len(names) {
			op.text = firstNonEmpty(fieldText(names[i][1]), names[i][2])
			op.hasText = true
		}
		opts = append(opts, op)
	}
	return opts
}

// unquoteToken strips the quotes of a quoted id token.
func unquoteToken(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return fieldText(tok[1 : len(tok)-1])
	}
	return tok
}
