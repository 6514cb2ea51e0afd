package session

import (
	"time"

	"github.com/abhisek/quizfeed/internal/quiz"
)

// Item is one row of the results view.
type Item struct {
	Number      int
	QuestionID  string
	Question    string
	Chosen      string
	Answer      string
	Explanation string
	Answered    bool
	Correct     bool
	Gradable    bool
}

// Summary is the data shown after submission.
type Summary struct {
	Correct  int
	Total    int
	Accuracy float64
	Duration time.Duration
	TimedOut bool
	Items    []Item
}

// BuildSummary builds the results view of a submitted attempt. It returns
// nil before submission.
func BuildSummary(s *State) *Summary {
	if s.Score == nil {
		return nil
	}
	sum := &Summary{
		Correct:  s.Score.Correct,
		Total:    s.Score.Total,
		Accuracy: s.Score.Accuracy(),
		Duration: s.Elapsed(s.SubmittedAt),
		TimedOut: s.TimedOut,
		Items:    make([]Item, len(s.Score.Outcomes)),
	}
	for i, o := range s.Score.Outcomes {
		sum.Items[i] = item(i+1, o)
	}
	return sum
}

func item(n int, o quiz.Outcome) Item {
	return Item{
		Number:      n,
		QuestionID:  o.Question.ID,
		Question:    o.Question.Text,
		Chosen:      o.Chosen,
		Answer:      o.Question.Answer,
		Explanation: o.Question.Explanation,
		Answered:    o.Answered,
		Correct:     o.Correct,
		Gradable:    o.Gradable,
	}
}

// SetExplanation fills a missing explanation for questionID. Explanations
// from the feed are kept.
func (sum *Summary) SetExplanation(questionID, text string) bool {
	for i := range sum.Items {
		it := &sum.Items[i]
		if it.QuestionID == questionID && it.Explanation == "" {
			it.Explanation = text
			return true
		}
	}
	return false
}

// MissingExplanations returns question ids of gradable rows without one.
func (sum *Summary) MissingExplanations() []string {
	var ids []string
	for _, it := range sum.Items {
		if it.Explanation == "" && it.Gradable {
			ids = append(ids, it.QuestionID)
		}
	}
	return ids
}
