package quiz

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() []Question {
	return []Question{
		{ID: "1", Text: "Pick a color", Answer: "Red", Options: []Option{{1, "Red"}, {2, "Blue"}, {3, "Green"}}},
		{ID: "2", Text: "Pick a shape", Answer: "Circle", Options: []Option{{1, "Square"}, {2, "Circle"}}},
		{ID: "3", Text: "Open question"},
	}
}

func TestGradable(t *testing.T) {
	qs := sampleQuestions()
	assert.True(t, qs[0].Gradable())
	assert.False(t, qs[2].Gradable(), "no options")

	dup := Question{ID: "x", Answer: "A", Options: []Option{{1, "A"}, {2, "A"}}}
	assert.False(t, dup.Gradable(), "answer matches two options")
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	out := Shuffle(in, rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, in)
	assert.ElementsMatch(t, in, out)
}

func TestShuffle_Deterministic(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	a := Shuffle(in, rand.New(rand.NewPCG(7, 7)))
	b := Shuffle(in, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestShuffleQuestions_ReturnsIndependentView(t *testing.T) {
	qs := sampleQuestions()
	view := ShuffleQuestions(qs, rand.New(rand.NewPCG(3, 4)), ShuffleOptions{Questions: true, Options: true})

	require.Len(t, view, len(qs))
	for _, v := range view {
		var orig Question
		for _, q := range qs {
			if q.ID == v.ID {
				orig = q
			}
		}
		assert.ElementsMatch(t, orig.Options, v.Options)
	}

	for i := range view {
		if len(view[i].Options) > 0 {
			view[i].Options[0].Text = "changed"
		}
	}
	assert.Equal(t, sampleQuestions(), qs)
}

func TestShuffleQuestions_NoShuffleKeepsOrder(t *testing.T) {
	qs := sampleQuestions()
	view := ShuffleQuestions(qs, nil, ShuffleOptions{})
	assert.Equal(t, qs, view)
}

func TestGrade(t *testing.T) {
	qs := sampleQuestions()
	score := Grade(qs, map[string]string{
		"1": "Red",
		"2": "Square",
	})

	assert.Equal(t, 1, score.Correct)
	assert.Equal(t, 3, score.Total)
	assert.Equal(t, 1, score.Unanswered())
	assert.InDelta(t, 1.0/3.0, score.Accuracy(), 1e-9)

	require.Len(t, score.Outcomes, 3)
	assert.True(t, score.Outcomes[0].Correct)
	assert.False(t, score.Outcomes[1].Correct)
	assert.True(t, score.Outcomes[1].Answered)
	assert.False(t, score.Outcomes[2].Answered)
	assert.False(t, score.Outcomes[2].Gradable)
}

func TestGrade_Empty(t *testing.T) {
	score := Grade(nil, nil)
	assert.Equal(t, 0, score.Total)
	assert.Equal(t, 0.0, score.Accuracy())
}

func TestCheckAnswer(t *testing.T) {
	q := Question{Answer: `Say "hi"`}
	assert.True(t, CheckAnswer(q, `Say "hi"`))
	assert.False(t, CheckAnswer(q, `say "hi"`))
	assert.False(t, CheckAnswer(Question{}, ""))
}
