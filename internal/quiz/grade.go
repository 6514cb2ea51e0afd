package quiz

// Outcome is the graded result of a single question.
type Outcome struct {
	Question Question

	// Chosen is the selected option text; empty when unanswered.
	Chosen string

	Answered bool
	Correct  bool

	// Gradable mirrors Question.Gradable at grading time.
	Gradable bool
}

// Score aggregates the outcomes of one submission.
type Score struct {
	Correct  int
	Total    int
	Outcomes []Outcome
}

// Accuracy returns Correct/Total, or 0 for an empty quiz.
func (s Score) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// Unanswered returns the number of questions without a selection.
func (s Score) Unanswered() int {
	n := 0
	for _, o := range s.Outcomes {
		if !o.Answered {
			n++
		}
	}
	return n
}

// CheckAnswer reports whether chosen is the correct answer for q.
// The comparison is exact: both sides come out of the same normalizer.
func CheckAnswer(q Question, chosen string) bool {
	if chosen == "" {
		return false
	}
	return chosen == q.Answer
}

// Grade scores answers (option text keyed by question id) against questions.
// Unanswered questions count toward Total and are never correct.
func Grade(questions []Question, answers map[string]string) Score {
	score := Score{
		Total:    len(questions),
		Outcomes: make([]Outcome, 0, len(questions)),
	}
	for _, q := range questions {
		chosen, answered := answers[q.ID]
		answered = answered && chosen != ""
		o := Outcome{
			Question: q,
			Chosen:   chosen,
			Answered: answered,
			Correct:  answered && CheckAnswer(q, chosen),
			Gradable: q.Gradable(),
		}
		if o.Correct {
			score.Correct++
		}
		score.Outcomes = append(score.Outcomes, o)
	}
	return score
}
