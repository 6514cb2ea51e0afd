package feedparse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/quizfeed/internal/quiz"
)

// wireDocument mirrors the feed's top-level object.
type wireDocument struct {
	Items *[]wireQuestion `json:"items"`
}

type wireQuestion struct {
	ID          flexString   `json:"Q_ID"`
	Name        flexString   `json:"Q_NAME"`
	Answer      flexString   `json:"Q_ANS"`
	Explanation flexString   `json:"ANS_DESC"`
	Options     []wireOption `json:"childItems"`
}

type wireOption struct {
	ID   json.RawMessage `json:"OP_ID"`
	Name flexString      `json:"OP_NAME"`
}

// flexString accepts a JSON string, number or null. The feed has sent ids
// both ways.
type flexString struct {
	Value string
	Set   bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = flexString{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString{Value: s, Set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString{Value: n.String(), Set: true}
	return nil
}

// Strict decodes raw in a single encoding/json pass. Any syntax or type
// error yields ErrMalformedInput with no partial result.
func Strict(raw string) (Result, error) {
	var doc wireDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Result{Stage: StageNone}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if doc.Items == nil {
		return Result{Stage: StageNone}, ErrContainerNotFound
	}

	res := Result{Stage: StageStrict}
	for _, wq := range *doc.Items {
		var b recordBuilder
		if wq.ID.Set {
			b.id = wq.ID.Value
		}
		if wq.Name.Set {
			b.text = wq.Name.Value
		}
		b.answer = wq.Answer.Value
		b.explanation = wq.Explanation.Value
		for _, wo := range wq.Options {
			b.addOption(optionID(wo.ID), wo.Name.Value, wo.Name.Set)
		}
		res.add(b)
	}
	return res, nil
}

// optionID renders a raw OP_ID the way the structural parser sees it:
// quoted ids lose their quotes, everything else is kept verbatim.
func optionID(raw json.RawMessage) string {
	return unquoteToken(string(bytes.TrimSpace(raw)))
}

// recordBuilder collects the fields of one question before they are
// checked. Both the strict and the structural path go through it, so both
// apply the same record rules.
type recordBuilder struct {
	id, text, answer, explanation string
	options                       []rawOption
}

type rawOption struct {
	id      string
	text    string
	hasText bool
}

func (b *recordBuilder) addOption(id, text string, hasText bool) {
	b.options = append(b.options, rawOption{id: id, text: text, hasText: hasText})
}

// build validates the collected fields. Options that fail are reported
// through dropped; a missing id or text fails the whole record. Fields
// arrive already decoded, so only surrounding whitespace is removed here.
func (b recordBuilder) build() (q quiz.Question, droppedOptions int, err error) {
	q.ID = strings.TrimSpace(b.id)
	q.Text = strings.TrimSpace(b.text)
	if q.ID == "" {
		return quiz.Question{}, 0, fmt.Errorf("Q_ID: %w", ErrFieldMissing)
	}
	if q.Text == "" {
		return quiz.Question{}, 0, fmt.Errorf("question %s: Q_NAME: %w", q.ID, ErrFieldMissing)
	}
	q.Answer = strings.TrimSpace(b.answer)
	q.Explanation = strings.TrimSpace(b.explanation)

	for _, ro := range b.options {
		op, err := ro.build()
		if err != nil {
			droppedOptions++
			continue
		}
		q.Options = append(q.Options, op)
	}
	return q, droppedOptions, nil
}

func (ro rawOption) build() (quiz.Option, error) {
	if !ro.hasText {
		return quiz.Option{}, fmt.Errorf("OP_NAME: %w", ErrFieldMissing)
	}
	id, err := strconv.Atoi(strings.TrimSpace(ro.id))
	if err != nil {
		return quiz.Option{}, fmt.Errorf("OP_ID %q: %w", ro.id, ErrNumericFieldInvalid)
	}
	return quiz.Option{ID: id, Text: strings.TrimSpace(ro.text)}, nil
}
