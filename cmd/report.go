package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/abhisek/quizfeed/internal/feed"
	"github.com/abhisek/quizfeed/internal/textfmt"
	"github.com/abhisek/quizfeed/internal/ui/theme"
)

// isTerminal is swapped in tests.
var isTerminal = term.IsTerminal

type optionReport struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type questionReport struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	Answer      string         `json:"answer"`
	Explanation string         `json:"explanation,omitempty"`
	Gradable    bool           `json:"gradable"`
	Options     []optionReport `json:"options"`
}

// parseReport is the machine readable outcome of one fetch cycle.
type parseReport struct {
	RunID            string           `json:"run_id,omitempty"`
	Source           string           `json:"source"`
	FromCache        bool             `json:"from_cache"`
	Bytes            int              `json:"bytes"`
	Stage            string           `json:"stage"`
	Rule             string           `json:"rule,omitempty"`
	ParseMicros      int64            `json:"parse_us"`
	DroppedQuestions int              `json:"dropped_questions"`
	DroppedOptions   int              `json:"dropped_options"`
	Questions        []questionReport `json:"questions"`
	Error            string           `json:"error,omitempty"`
}

func newReport(source string, b *feed.Batch, err error) parseReport {
	r := parseReport{Source: source, Stage: "none", Questions: []questionReport{}}
	if err != nil {
		r.Error = err.Error()
	}
	if b == nil {
		return r
	}
	r.RunID = b.RunID
	r.Stage = string(b.Result.Stage)
	r.Rule = b.Result.Rule
	r.ParseMicros = b.ParseTime.Microseconds()
	r.DroppedQuestions = b.Result.Dropped.Questions
	r.DroppedOptions = b.Result.Dropped.Options
	if b.Payload != nil {
		r.FromCache = b.Payload.FromCache
		r.Bytes = len(b.Payload.Body)
	}
	for _, q := range b.Questions {
		qr := questionReport{
			ID:          q.ID,
			Text:        q.Text,
			Answer:      q.Answer,
			Explanation: q.Explanation,
			Gradable:    q.Gradable(),
			Options:     make([]optionReport, len(q.Options)),
		}
		for i, op := range q.Options {
			qr.Options[i] = optionReport{ID: op.ID, Text: op.Text}
		}
		r.Questions = append(r.Questions, qr)
	}
	return r
}

// writeReport prints r as JSON, as a styled summary on a terminal, or as
// a plain table otherwise.
func writeReport(w io.Writer, r parseReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	if isTerminal(int(os.Stdout.Fd())) {
		return writeStyled(w, r)
	}
	return writePlain(w, r)
}

func stageLabel(r parseReport) string {
	if r.Rule != "" {
		return r.Stage + " (" + r.Rule + ")"
	}
	return r.Stage
}

func writePlain(w io.Writer, r parseReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "source\t%s\n", r.Source)
	fmt.Fprintf(tw, "cached\t%v\n", r.FromCache)
	fmt.Fprintf(tw, "bytes\t%d\n", r.Bytes)
	fmt.Fprintf(tw, "stage\t%s\n", stageLabel(r))
	fmt.Fprintf(tw, "questions\t%d\n", len(r.Questions))
	fmt.Fprintf(tw, "dropped\t%d questions, %d options\n", r.DroppedQuestions, r.DroppedOptions)
	if r.Error != "" {
		fmt.Fprintf(tw, "error\t%s\n", r.Error)
	}
	if len(r.Questions) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "ID\tOPTIONS\tGRADABLE\tQUESTION")
		for _, q := range r.Questions {
			fmt.Fprintf(tw, "%s\t%d\t%v\t%s\n", q.ID, len(q.Options), q.Gradable, truncate(textfmt.Inline(q.Text), 60))
		}
	}
	return tw.Flush()
}

func writeStyled(w io.Writer, r parseReport) error {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(11)
	row := func(k, v string) string { return label.Render(k) + v }

	stage := theme.Correct.Render(stageLabel(r))
	if r.Stage != "strict" {
		stage = theme.Warning.Render(stageLabel(r))
	}

	lines := []string{
		theme.Title.Render("Feed report"),
		row("source", r.Source),
		row("stage", stage),
		row("questions", fmt.Sprintf("%d (dropped %d questions, %d options)", len(r.Questions), r.DroppedQuestions, r.DroppedOptions)),
		row("payload", fmt.Sprintf("%d bytes, parsed in %dµs", r.Bytes, r.ParseMicros)),
	}
	if r.FromCache {
		lines = append(lines, theme.Warning.Render("served from the offline cache"))
	}
	if r.Error != "" {
		lines = append(lines, theme.Incorrect.Render(r.Error))
	}
	for _, q := range r.Questions {
		mark := theme.Correct.Render("✓")
		if !q.Gradable {
			mark = theme.Incorrect.Render("?")
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", mark, theme.Hint.Render(q.ID), textfmt.Inline(q.Text)))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
