package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizfeed/internal/feed"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the feed once and report how it was parsed",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		url, _ := cmd.Flags().GetString("url")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if url != "" {
			cfg.Feed.URL = url
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		loader := feed.NewLoader(feed.NewFetcher(cfg, st), st.EventRepo())
		batch, loadErr := loader.Load(ctx)
		if err := writeReport(cmd.OutOrStdout(), newReport(loader.Source(), batch, loadErr), asJSON); err != nil {
			return err
		}
		return loadErr
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Run the repair pipeline over a saved payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if _, err := loadConfig(cmd); err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		src := &feed.FileFetcher{Path: args[0]}
		p, err := src.Fetch(ctx)
		if err != nil {
			return err
		}

		batch, parseErr := feed.NewLoader(src, st.EventRepo()).Parse(ctx, p)
		if err := writeReport(cmd.OutOrStdout(), newReport(src.Source(), batch, parseErr), asJSON); err != nil {
			return err
		}
		if errors.Is(parseErr, feed.ErrNoQuestions) {
			return fmt.Errorf("%s: %w", args[0], parseErr)
		}
		return parseErr
	},
}

func init() {
	fetchCmd.Flags().Bool("json", false, "Print the report as JSON")
	fetchCmd.Flags().String("url", "", "Feed URL (overrides config)")
	parseCmd.Flags().Bool("json", false, "Print the report as JSON")
}
