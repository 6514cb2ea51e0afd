package explain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizfeed/internal/llm"
	"github.com/abhisek/quizfeed/internal/quiz"
)

func question(id, explanation string) quiz.Question {
	return quiz.Question{
		ID:          id,
		Text:        "Pick a color",
		Answer:      "Blue",
		Explanation: explanation,
		Options:     []quiz.Option{{ID: 1, Text: "Blue"}, {ID: 2, Text: "Car"}},
	}
}

func reply(text string, confident bool) llm.MockResponse {
	b, _ := json.Marshal(output{Explanation: text, Confident: confident})
	return llm.MockResponse{Content: b}
}

func TestMissing(t *testing.T) {
	ungradable := question("3", "")
	ungradable.Answer = "Green"

	got := Missing([]quiz.Question{question("1", ""), question("2", "has one"), ungradable})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(reply("  Blue is a color.  ", true))
	s := NewService(mock, DefaultConfig())

	e, err := s.Explain(context.Background(), question("1", ""))
	require.NoError(t, err)
	assert.Equal(t, Explanation{QuestionID: "1", Text: "Blue is a color.", Confident: true}, e)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Same(t, Schema, calls[0].Schema)
	assert.Contains(t, calls[0].Messages[0].Content, "Correct answer: Blue")
	assert.Contains(t, calls[0].Messages[0].Content, "2. Car")
}

func TestExplainEmptyText(t *testing.T) {
	s := NewService(llm.NewMockProvider(reply(" ", true)), DefaultConfig())
	_, err := s.Explain(context.Background(), question("1", ""))
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	s := NewService(nil, DefaultConfig())
	assert.False(t, s.Enabled())
	_, err := s.Fill(context.Background(), []quiz.Question{question("1", "")})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestFillPartialFailure(t *testing.T) {
	mock := llm.NewMockProvider(
		reply("ok", true),
		llm.MockResponse{Err: &llm.UnavailableError{Err: errors.New("down")}},
	)
	s := NewService(mock, Config{Concurrency: 1})

	got, err := s.Fill(context.Background(), []quiz.Question{question("1", ""), question("2", "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question 2")
	assert.Len(t, got, 1)
	assert.Equal(t, "ok", got["1"].Text)
}

func TestRequestConsume(t *testing.T) {
	mock := llm.NewMockProvider(reply("first", true), reply("second", false))
	s := NewService(mock, DefaultConfig())

	_, ok := s.Consume()
	assert.False(t, ok)

	s.Request(context.Background(), []quiz.Question{question("1", ""), question("2", "")})

	var res Result
	require.Eventually(t, func() bool {
		var ready bool
		res, ready = s.Consume()
		return ready
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, res.Err)
	assert.Len(t, res.Explanations, 2)

	_, ok = s.Consume()
	assert.False(t, ok, "slot is cleared after consume")
}

func TestApply(t *testing.T) {
	qs := []quiz.Question{question("1", ""), question("2", "from feed")}
	got := map[string]Explanation{
		"1": {QuestionID: "1", Text: "generated"},
		"2": {QuestionID: "2", Text: "ignored"},
	}

	out := Apply(qs, got)
	assert.Equal(t, "generated", out[0].Explanation)
	assert.Equal(t, "from feed", out[1].Explanation)
	assert.Empty(t, qs[0].Explanation, "input is not mutated")
}
