package feedparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizfeed/internal/quiz"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"compact", `{"items":[{"Q_ID":"1"}]}`, `{"Q_ID":"1"}`},
		{"field order and spacing", "{ \"count\": 1,\n \"items\" :\n [ {\"Q_ID\":\"1\"} ] , \"hasMore\":false}", ` {"Q_ID":"1"} `},
		{"nested arrays", `{"items":[{"childItems":[{"OP_ID":1}]}],"x":[1]}`, `{"childItems":[{"OP_ID":1}]}`},
		{"brackets inside text", `{"items":[{"Q_NAME":"a ] b"}]}`, `{"Q_NAME":"a ] b"}`},
		{"unescaped quote inside text", `{"items":[{"Q_NAME":"say "hi" now"}]}`, `{"Q_NAME":"say "hi" now"}`},
		{"truncated", `{"items":[{"Q_ID":"1","Q_NAME":"cut`, `{"Q_ID":"1","Q_NAME":"cut`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_ContainerNotFound(t *testing.T) {
	_, err := Extract(`{"questions":[{"Q_ID":"1"}]}`)
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestSplitQuestions(t *testing.T) {
	region := ` {"Q_ID":"1","Q_NAME":"a"}, { "Q_ID" : 2,"Q_NAME":"b"} `
	frags := SplitQuestions(region)
	require.Len(t, frags, 2)
	assert.True(t, strings.HasPrefix(frags[0], canonicalPrefix))
	assert.Equal(t, `{"Q_ID":"1","Q_NAME":"a"}, `, frags[0])
	assert.Equal(t, `{"Q_ID": 2,"Q_NAME":"b"} `, frags[1])

	assert.Nil(t, SplitQuestions(`{"OP_ID":1}`))
}

func TestFieldText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid body decodes once", `C:\\temp \\n`, `C:\temp \n`},
		{"escaped quotes", `a \"b\"`, `a "b"`},
		{"unescaped quote falls back to Normalize", `He said "hi"\tthen \"left\"`, "He said \"hi\"\tthen \"left\""},
		{"raw newline falls back to Normalize", "two\nlines \\u0027ok\\u0027", "two\nlines 'ok'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldText(tt.in))
		})
	}
}

func TestParseBlock(t *testing.T) {
	frag := `{"Q_ID":"9", "Q_NAME" : "Which is "odd"?","ANS_DESC":"3 is odd","Q_ANS":"3","childItems":[{"OP_ID":1,"OP_NAME":"2"},{"OP_ID":2,"OP_NAME":"3"}]}`
	q, dropped, err := parseBlock(frag).build()
	require.NoError(t, err)

	assert.Equal(t, 0, dropped)
	assert.Equal(t, "9", q.ID)
	assert.Equal(t, `Which is "odd"?`, q.Text)
	assert.Equal(t, "3", q.Answer)
	assert.Equal(t, "3 is odd", q.Explanation)
	assert.Equal(t, []quiz.Option{{ID: 1, Text: "2"}, {ID: 2, Text: "3"}}, q.Options)
}

func TestParseBlock_NoOptions(t *testing.T) {
	q, _, err := parseBlock(`{"Q_ID":"1","Q_NAME":"open question"}`).build()
	require.NoError(t, err)
	assert.Empty(t, q.Options)
	assert.False(t, q.Gradable())
}

func TestParseOptions(t *testing.T) {
	t.Run("primary", func(t *testing.T) {
		opts := ParseOptions(`{"OP_ID":1,"OP_NAME":"Red"},{ "OP_ID" : "2" , "OP_NAME" : "Blue" }`)
		require.Len(t, opts, 2)
		assert.Equal(t, rawOption{id: "1", text: "Red", hasText: true}, opts[0])
		assert.Equal(t, rawOption{id: "2", text: "Blue", hasText: true}, opts[1])
	})

	t.Run("primary counts options without a name", func(t *testing.T) {
		opts := ParseOptions(`{"OP_ID":1},{"OP_ID":2,"OP_NAME":"Blue"}`)
		require.Len(t, opts, 2)
		assert.False(t, opts[1].hasText)
	})

	t.Run("secondary pairs reordered members", func(t *testing.T) {
		opts := ParseOptions(`{"OP_NAME":"Red","OP_ID":1},{"OP_NAME":"Blue","OP_ID":2}`)
		require.Len(t, opts, 2)
		assert.Equal(t, rawOption{id: "1", text: "Red", hasText: true}, opts[0])
		assert.Equal(t, rawOption{id: "2", text: "Blue", hasText: true}, opts[1])
	})

	t.Run("non numeric id drops only that option", func(t *testing.T) {
		b := recordBuilder{id: "1", text: "q", options: ParseOptions(`{"OP_ID":"abc","OP_NAME":"x"},{"OP_ID":2,"OP_NAME":"y"}`)}
		q, dropped, err := b.build()
		require.NoError(t, err)
		assert.Equal(t, 1, dropped)
		assert.Equal(t, []quiz.Option{{ID: 2, Text: "y"}}, q.Options)
	})
}

func TestStructural_Truncated(t *testing.T) {
	res, err := Structural(readFixture(t, "truncated.json"))
	require.NoError(t, err)

	require.Len(t, res.Questions, 2)
	assert.Equal(t, "Pick a shape", res.Questions[1].Text)
	assert.Equal(t, []quiz.Option{{ID: 1, Text: "Circle"}}, res.Questions[1].Options)
	assert.Equal(t, 1, res.Dropped.Options)
}

func TestStructural_DroppedRecordIsolation(t *testing.T) {
	raw := `{"items":[` +
		`{"Q_ID":"1","Q_NAME":"first","Q_ANS":"a","childItems":[{"OP_ID":1,"OP_NAME":"a"}]},` +
		`{"Q_ID":,"Q_NAME":"no id","Q_ANS":"b"},` +
		`{"Q_ID":"3","Q_NAME":"third "quoted"","Q_ANS":"c","childItems":[{"OP_ID":1,"OP_NAME":"c"}]}` +
		`]}`
	res, err := Structural(raw)
	require.NoError(t, err)

	require.Len(t, res.Questions, 2)
	assert.Equal(t, "1", res.Questions[0].ID)
	assert.Equal(t, "3", res.Questions[1].ID)
	assert.Equal(t, `third "quoted"`, res.Questions[1].Text)
	assert.Equal(t, 1, res.Dropped.Questions)
}
