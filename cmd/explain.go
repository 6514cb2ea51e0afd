package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizfeed/internal/explain"
	"github.com/abhisek/quizfeed/internal/feed"
	"github.com/abhisek/quizfeed/internal/textfmt"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Generate explanations for feed questions that have none",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		batch, err := feed.NewLoader(newFetcher(cfg, st, file), st.EventRepo()).Load(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		missing := explain.Missing(batch.Questions)
		if len(missing) == 0 {
			fmt.Fprintln(out, "Every gradable question already has an explanation.")
			return nil
		}

		ecfg := explain.DefaultConfig()
		if concurrency > 0 {
			ecfg.Concurrency = concurrency
		}
		svc, err := newExplainer(ctx, st.EventRepo(), ecfg)
		if err != nil {
			return fmt.Errorf("llm provider: %w", err)
		}

		got, fillErr := svc.Fill(ctx, missing)

		for _, q := range missing {
			e, ok := got[q.ID]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%s  %s\n", q.ID, textfmt.Inline(q.Text))
			fmt.Fprintf(out, "    answer: %s\n", q.Answer)
			note := ""
			if !e.Confident {
				note = " (model doubts the marked answer)"
			}
			fmt.Fprintf(out, "    %s%s\n\n", e.Text, note)
		}
		fmt.Fprintf(out, "Explained %d of %d question(s).\n", len(got), len(missing))

		if fillErr != nil {
			return fmt.Errorf("some explanations failed: %w", fillErr)
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().String("file", "", "Read questions from a payload file instead of the live feed")
	explainCmd.Flags().Int("concurrency", 0, "Parallel LLM requests (default 4)")
}
