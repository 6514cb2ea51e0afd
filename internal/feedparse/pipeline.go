// Package feedparse recovers quiz questions from the feed payload, which is
// frequently malformed JSON. Parse tries a strict decode, then textual
// repairs, then regex driven extraction, and stops at the first success.
// Everything here is pure: no I/O and no package state beyond compiled
// patterns.
package feedparse

import (
	"github.com/abhisek/quizfeed/internal/quiz"
)

// Stage names the pipeline step that produced a Result.
type Stage string

const (
	StageNone       Stage = "none"
	StageStrict     Stage = "strict"
	StageRepair     Stage = "repair"
	StageStructural Stage = "structural"
)

// Dropped counts records discarded by the record rules.
type Dropped struct {
	Questions int
	Options   int
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Questions in source order. Empty means no questions are available.
	Questions []quiz.Question

	Stage Stage

	// Rule is the winning repair rule when Stage is StageRepair.
	Rule string

	Dropped Dropped
}

// OK reports whether at least one question was recovered.
func (r Result) OK() bool {
	return len(r.Questions) > 0
}

func (r *Result) add(b recordBuilder) {
	q, droppedOptions, err := b.build()
	if err != nil {
		r.Dropped.Questions++
		return
	}
	r.Dropped.Options += droppedOptions
	r.Questions = append(r.Questions, q)
}

// Structural extracts questions with the regex fallback, without decoding
// the payload as a whole.
func Structural(raw string) (Result, error) {
	region, err := Extract(raw)
	if err != nil {
		return Result{Stage: StageNone}, err
	}
	res := Result{Stage: StageStructural}
	for _, frag := range SplitQuestions(region) {
		res.add(parseBlock(frag))
	}
	return res, nil
}

// Parse runs Strict, Repair and Structural in order and returns the first
// success. It never panics and never fails; a payload without a question
// container yields an empty Result with StageNone.
func Parse(raw string) (res Result) {
	defer func() {
		if recover() != nil {
			res = Result{Stage: StageNone}
		}
	}()

	stages := []func(string) (Result, error){Strict, Repair, Structural}
	for _, stage := range stages {
		if r, err := stage(raw); err == nil {
			return r
		}
	}
	return Result{Stage: StageNone}
}
