package feedparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizfeed/internal/quiz"
)

func TestStrict_PickAColor(t *testing.T) {
	res, err := Strict(pickAColor)
	require.NoError(t, err)

	assert.Equal(t, StageStrict, res.Stage)
	require.Len(t, res.Questions, 1)
	q := res.Questions[0]
	assert.Equal(t, "1", q.ID)
	assert.Equal(t, "Pick a color", q.Text)
	assert.Equal(t, "Red", q.Answer)
	assert.Equal(t, "", q.Explanation)
	assert.Equal(t, []quiz.Option{{ID: 1, Text: "Red"}, {ID: 2, Text: "Blue"}}, q.Options)
}

func TestStrict_Fixture(t *testing.T) {
	res, err := Strict(readFixture(t, "valid.json"))
	require.NoError(t, err)
	require.Len(t, res.Questions, 2)

	q := res.Questions[1]
	assert.Equal(t, "2", q.ID, "numeric ids are kept as text")
	assert.Equal(t, `Which word is a "verb"?`, q.Text)
	assert.Equal(t, []quiz.Option{{ID: 1, Text: "run"}, {ID: 2, Text: "blue"}, {ID: 3, Text: "table"}}, q.Options)
	assert.True(t, q.Gradable())
	assert.Equal(t, Dropped{}, res.Dropped)
}

func TestStrict_MalformedInput(t *testing.T) {
	_, err := Strict(`{"items":[{"Q_ID":"1","Q_NAME":"Say "hi""}]}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestStrict_NoContainer(t *testing.T) {
	_, err := Strict(`{"data":[]}`)
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestStrict_RecordRules(t *testing.T) {
	raw := `{"items":[
		{"Q_ID":null,"Q_NAME":"no id"},
		{"Q_ID":"2","Q_NAME":"   "},
		{"Q_ID":"3","Q_NAME":"kept","childItems":[
			{"OP_ID":"x","OP_NAME":"bad id"},
			{"OP_ID":1},
			{"OP_ID":2,"OP_NAME":" ok "}
		]}
	]}`
	res, err := Strict(raw)
	require.NoError(t, err)

	require.Len(t, res.Questions, 1)
	assert.Equal(t, "3", res.Questions[0].ID)
	assert.Equal(t, "", res.Questions[0].Answer, "missing answer defaults to empty")
	assert.Equal(t, []quiz.Option{{ID: 2, Text: "ok"}}, res.Questions[0].Options)
	assert.Equal(t, Dropped{Questions: 2, Options: 2}, res.Dropped)
}

func TestRecordBuilder_Errors(t *testing.T) {
	_, _, err := recordBuilder{text: "x"}.build()
	assert.ErrorIs(t, err, ErrFieldMissing)

	_, err = rawOption{id: "1.5", text: "x", hasText: true}.build()
	assert.ErrorIs(t, err, ErrNumericFieldInvalid)

	_, err = rawOption{id: "1"}.build()
	assert.ErrorIs(t, err, ErrFieldMissing)
}
