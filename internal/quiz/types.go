package quiz

// Question is one quiz item recovered from the feed.
// Values are built once per fetch cycle and never mutated afterwards;
// reordering for display produces a new slice (see ShuffleQuestions).
type Question struct {
	// ID identifies the question within a single feed response.
	ID string

	// Text is the prompt shown to the player. It may contain quote characters
	// that the feed failed to escape.
	Text string

	// Answer is the text of the correct option. A question is gradable only
	// when exactly one option carries this text.
	Answer string

	// Explanation is shown on the results view. Empty when the feed has none.
	Explanation string

	// Options are the selectable choices in source order.
	Options []Option
}

// Option is one selectable choice of a Question.
type Option struct {
	// ID is unique within the parent question's options only.
	ID int

	// Text is the display text, compared against Question.Answer when grading.
	Text string
}

// Gradable reports whether exactly one option matches the correct answer.
func (q Question) Gradable() bool {
	n := 0
	for _, op := range q.Options {
		if op.Text == q.Answer {
			n++
		}
	}
	return n == 1
}

// OptionByID returns the option with the given id.
func (q Question) OptionByID(id int) (Option, bool) {
	for _, op := range q.Options {
		if op.ID == id {
			return op, true
		}
	}
	return Option{}, false
}

// Clone returns a copy of q whose Options slice does not alias the original.
func (q Question) Clone() Question {
	if q.Options != nil {
		ops := make([]Option, len(q.Options))
		copy(ops, q.Options)
		q.Options = ops
	}
	return q
}
