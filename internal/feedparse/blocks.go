package feedparse

import (
	"encoding/json"
	"regexp"
)

// questionPrefix introduces every question record in the items array.
var questionPrefix = regexp.MustCompile(`\{\s*"Q_ID"\s*:`)

const canonicalPrefix = `{"Q_ID":`

const numberPattern = `-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`

var (
	idField          = regexp.MustCompile(`"Q_ID"\s*:\s*(?:"((?:[^"\\]|\\.)*)"|(` + numberPattern + `))`)
	nameField        = textField("Q_NAME")
	answerField      = textField("Q_ANS")
	explanationField = textField("ANS_DESC")
)

// textField builds a pattern for a string member that may carry unescaped
// quotes. The value ends at the first quote followed by another member or
// the end of the object.
func textField(name string) *regexp.Regexp {
	return regexp.MustCompile(`"` + name + `"\s*:\s*(?:"([\s\S]*?)"\s*(?:,\s*"[A-Za-z_]+"\s*:|\}|$)|(` + numberPattern + `))`)
}

// SplitQuestions cuts an items region into one fragment per question. The
// text before the first question prefix is discarded and each fragment gets
// its prefix back.
func SplitQuestions(region string) []string {
	parts := questionPrefix.Split(region, -1)
	if len(parts) < 2 {
		return nil
	}
	frags := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		frags = append(frags, canonicalPrefix+p)
	}
	return frags
}

// parseBlock pulls the question fields and the option list out of one
// fragment. Fields that cannot be found stay empty; the record rules in
// build decide whether that drops the question.
func parseBlock(frag string) recordBuilder {
	var b recordBuilder
	if m := idField.FindStringSubmatch(frag); m != nil {
		b.id = firstNonEmpty(fieldText(m[1]), m[2])
	}
	b.text = findText(nameField, frag)
	b.answer = findText(answerField, frag)
	b.explanation = findText(explanationField, frag)

	if region, err := arrayContents(frag, childOpen); err == nil {
		b.options = ParseOptions(region)
	}
	return b
}

func findText(re *regexp.Regexp, frag string) string {
	m := re.FindStringSubmatch(frag)
	if m == nil {
		return ""
	}
	return firstNonEmpty(fieldText(m[1]), m[2])
}

// fieldText turns a captured string body into field text. A capture that
// is a valid JSON string body decodes exactly as encoding/json would;
// anything else is unescaped by Normalize.
func fieldText(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err == nil {
		return out
	}
	return Normalize(s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
