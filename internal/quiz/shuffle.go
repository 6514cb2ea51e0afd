package quiz

import "math/rand/v2"

// ShuffleOptions selects what ShuffleQuestions reorders.
type ShuffleOptions struct {
	Questions bool
	Options   bool
}

// Shuffle returns a Fisher-Yates shuffled copy of items. The input is left
// untouched. A nil rng uses the package-level source.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleQuestions returns a new ordered view of qs. Every returned question
// owns its Options slice, so callers may reorder it freely without touching
// the parsed records.
func ShuffleQuestions(qs []Question, rng *rand.Rand, opts ShuffleOptions) []Question {
	view := make([]Question, len(qs))
	for i, q := range qs {
		view[i] = q.Clone()
	}
	if opts.Questions {
		view = Shuffle(view, rng)
	}
	if opts.Options {
		for i := range view {
			view[i].Options = Shuffle(view[i].Options, rng)
		}
	}
	return view
}
