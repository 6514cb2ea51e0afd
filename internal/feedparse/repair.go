package feedparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Rule is a text rewrite targeting one class of feed corruption.
type Rule struct {
	Name  string
	Apply func(raw string) string
}

// Rule names, in evaluation order.
const (
	RuleEmbeddedQuotes = "embedded-quotes"
	RuleBOMWhitespace  = "bom-whitespace"
	RuleQuoteBalance   = "quote-balance"
	RuleJSONRepair     = "jsonrepair"
)

// DefaultRules returns the repair rules in the order Repair tries them.
// Embedded quotes come first: it is the corruption the feed shows most.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleEmbeddedQuotes, Apply: escapeEmbeddedQuotes},
		{Name: RuleBOMWhitespace, Apply: stripBOM},
		{Name: RuleQuoteBalance, Apply: balanceQuotes},
		{Name: RuleJSONRepair, Apply: repairJSON},
	}
}

// Repair runs the default rules against raw.
func Repair(raw string) (Result, error) {
	return RepairWith(raw, DefaultRules())
}

// RepairWith applies each rule to the original raw text and re-runs Strict
// on the output. The first rule whose output decodes wins. Rules that leave
// the text unchanged or panic are skipped.
func RepairWith(raw string, rules []Rule) (Result, error) {
	for _, r := range rules {
		fixed, ok := applyRule(r, raw)
		if !ok {
			continue
		}
		res, err := Strict(fixed)
		if err != nil {
			continue
		}
		res.Stage = StageRepair
		res.Rule = r.Name
		return res, nil
	}
	return Result{Stage: StageNone}, fmt.Errorf("%w: no repair rule applied", ErrMalformedInput)
}

func applyRule(r Rule, raw string) (out string, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()
	out = r.Apply(raw)
	return out, out != raw
}

// nextKey matches the start of the next object member: "name" followed by a colon.
var nextKey = regexp.MustCompile(`^"(?:[^"\\]|\\.)*"\s*:`)

const jsonSpace = " \t\r\n"

// closesValue reports whether a quote followed by rest can end a string
// value: the value has to be followed by another member, the end of its
// container or the end of input.
func closesValue(rest string) bool {
	rest = strings.TrimLeft(rest, jsonSpace)
	if rest == "" {
		return true
	}
	switch rest[0] {
	case '}', ']':
		return true
	case ',':
		rest = strings.TrimLeft(rest[1:], jsonSpace)
		if rest == "" || strings.ContainsRune("{[}]", rune(rest[0])) {
			return true
		}
		return nextKey.MatchString(rest)
	}
	return false
}

// closesAny reports whether a quote followed by rest sits before structural
// punctuation.
func closesAny(rest string) bool {
	rest = strings.TrimLeft(rest, jsonSpace)
	if rest == "" {
		return true
	}
	switch rest[0] {
	case ',', ':', '}', ']':
		return true
	}
	return false
}

// escapeEmbeddedQuotes escapes interior quotes of member values, e.g.
// "Q_NAME":"Choose the past tense of "eat"?" becomes
// "Q_NAME":"Choose the past tense of \"eat\"?".
func escapeEmbeddedQuotes(raw string) string {
	return escapeStrayQuotes(raw, true, closesValue)
}

// balanceQuotes escapes any quote inside a string that is not followed by
// structural punctuation, keys and array elements included.
func balanceQuotes(raw string) string {
	return escapeStrayQuotes(raw, false, closesAny)
}

func stripBOM(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.TrimSpace(s)
}

func repairJSON(raw string) string {
	fixed, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return raw
	}
	return fixed
}

// escapeStrayQuotes walks raw tracking string state. Inside a string that
// is subject to repair, a quote ends the string only when closes accepts
// what follows it; otherwise a backslash is inserted before it. With
// valuesOnly set, only strings introduced by a colon are repaired.
func escapeStrayQuotes(raw string, valuesOnly bool, closes func(rest string) bool) string {
	var b strings.Builder
	b.Grow(len(raw) + 16)

	var (
		inString bool
		repair   bool
		prev     byte
	)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if !inString {
			b.WriteByte(c)
			switch {
			case c == '"':
				inString = true
				repair = !valuesOnly || prev == ':'
			case !strings.ContainsRune(jsonSpace, rune(c)):
				prev = c
			}
			continue
		}

		switch {
		case c == '\\' && i+1 < len(raw):
			b.WriteByte(c)
			b.WriteByte(raw[i+1])
			i++
		case c == '"' && (!repair || closes(raw[i+1:])):
			b.WriteByte(c)
			inString = false
			prev = c
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
