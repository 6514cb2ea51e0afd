package feedparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeEmbeddedQuotes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "past tense",
			in:   `{"Q_NAME":"Choose the past tense of "eat"","Q_ANS":"ate"}`,
			want: `{"Q_NAME":"Choose the past tense of \"eat\"","Q_ANS":"ate"}`,
		},
		{
			name: "mid sentence",
			in:   `{"Q_NAME":"Say "hi" now","Q_ANS":"hi"}`,
			want: `{"Q_NAME":"Say \"hi\" now","Q_ANS":"hi"}`,
		},
		{
			name: "comma inside quoted phrase",
			in:   `{"Q_NAME":"Pick "A", "B" or "C"","Q_ANS":"A"}`,
			want: `{"Q_NAME":"Pick \"A\", \"B\" or \"C\"","Q_ANS":"A"}`,
		},
		{
			name: "already escaped is left alone",
			in:   `{"Q_NAME":"Say \"hi\"","Q_ANS":"hi"}`,
			want: `{"Q_NAME":"Say \"hi\"","Q_ANS":"hi"}`,
		},
		{
			name: "array elements are not values",
			in:   `["a","b"]`,
			want: `["a","b"]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeEmbeddedQuotes(tt.in))
		})
	}
}

func TestBalanceQuotes(t *testing.T) {
	in := `{"Q_NAME":"a "b" c"}`
	assert.Equal(t, `{"Q_NAME":"a \"b\" c"}`, balanceQuotes(in))
}

func TestStripBOM(t *testing.T) {
	assert.Equal(t, `{"items":[]}`, stripBOM("\uFEFF  {\"items\":[]}\n"))
	assert.Equal(t, `{}`, stripBOM(" {} "))
}

func TestRepair_EmbeddedQuotesWinsFirst(t *testing.T) {
	res, err := Repair(readFixture(t, "embedded_quotes.json"))
	require.NoError(t, err)

	assert.Equal(t, StageRepair, res.Stage)
	assert.Equal(t, RuleEmbeddedQuotes, res.Rule)
	require.Len(t, res.Questions, 2)
	assert.Equal(t, `Choose the past tense of "eat"`, res.Questions[0].Text)
	assert.Equal(t, `Say "hi" now`, res.Questions[1].Text)
	assert.True(t, res.Questions[0].Gradable())
}

func TestRepair_BOM(t *testing.T) {
	res, err := Repair("\uFEFF" + pickAColor + "\r\n")
	require.NoError(t, err)
	assert.Equal(t, RuleBOMWhitespace, res.Rule)
	require.Len(t, res.Questions, 1)
}

func TestRepair_TrailingComma(t *testing.T) {
	raw := `{"items":[{"Q_ID":"1","Q_NAME":"Pick a color","Q_ANS":"Red","childItems":[{"OP_ID":1,"OP_NAME":"Red"},]},]}`
	res, err := Repair(raw)
	require.NoError(t, err)
	assert.Equal(t, RuleJSONRepair, res.Rule)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "Red", res.Questions[0].Options[0].Text)
}

func TestRepairWith_SkipsPanicsAndNoops(t *testing.T) {
	var calls []string
	rules := []Rule{
		{Name: "boom", Apply: func(string) string { calls = append(calls, "boom"); panic("rule failed") }},
		{Name: "noop", Apply: func(s string) string { calls = append(calls, "noop"); return s }},
		{Name: "fix", Apply: func(string) string { calls = append(calls, "fix"); return pickAColor }},
		{Name: "never", Apply: func(s string) string { calls = append(calls, "never"); return s }},
	}
	res, err := RepairWith("garbage", rules)
	require.NoError(t, err)
	assert.Equal(t, "fix", res.Rule)
	assert.Equal(t, []string{"boom", "noop", "fix"}, calls)
}

func TestRepairWith_NoRuleApplies(t *testing.T) {
	_, err := RepairWith("garbage", nil)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
