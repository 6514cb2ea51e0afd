package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizfeed/internal/llm"
	"github.com/abhisek/quizfeed/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded fetch, parse and LLM events",
}

// withStore opens the store for a read-only inspection command.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

var eventsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List recent feed fetch attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		out := cmd.OutOrStdout()

		return withStore(cmd, func(s *store.Store) error {
			events, err := s.EventRepo().QueryFetchEvents(cmd.Context(), store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No fetch events found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-3s  %-6s  %-7s  %-8s  %-5s  %s\n",
				"ID", "Timestamp", "Try", "Status", "Ms", "Bytes", "Cache", "Error")
			fmt.Fprintln(out, strings.Repeat("─", 90))
			for _, e := range events {
				cache := ""
				if e.FromCache {
					cache = "yes"
				}
				fmt.Fprintf(out, "%-5d  %-19s  %-3d  %-6d  %-7d  %-8d  %-5s  %s\n",
					e.ID,
					e.Timestamp.Local().Format(timeLayout),
					e.Attempt,
					e.Status,
					e.LatencyMs,
					e.Bytes,
					cache,
					truncate(e.ErrorMessage, 40),
				)
			}
			return nil
		})
	},
}

var eventsParseCmd = &cobra.Command{
	Use:   "parse",
	Short: "List recent parse runs and which stage won",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		stats, _ := cmd.Flags().GetBool("stats")
		out := cmd.OutOrStdout()

		return withStore(cmd, func(s *store.Store) error {
			if stats {
				counts, err := s.EventRepo().ParseStageCounts(cmd.Context())
				if err != nil {
					return fmt.Errorf("query stage counts: %w", err)
				}
				if len(counts) == 0 {
					fmt.Fprintln(out, "No parse runs recorded yet.")
					return nil
				}
				fmt.Fprintf(out, "%-12s  %-16s  %6s\n", "Stage", "Rule", "Runs")
				fmt.Fprintln(out, strings.Repeat("─", 38))
				for _, c := range counts {
					fmt.Fprintf(out, "%-12s  %-16s  %6d\n", c.Stage, c.Rule, c.Runs)
				}
				return nil
			}

			events, err := s.EventRepo().QueryParseEvents(cmd.Context(), store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No parse events found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-6s  %-11s  %-16s  %4s  %7s  %8s\n",
				"ID", "Timestamp", "Source", "Stage", "Rule", "Qs", "Dropped", "Bytes")
			fmt.Fprintln(out, strings.Repeat("─", 92))
			for _, e := range events {
				fmt.Fprintf(out, "%-5d  %-19s  %-6s  %-11s  %-16s  %4d  %7s  %8d\n",
					e.ID,
					e.Timestamp.Local().Format(timeLayout),
					e.Source,
					e.Stage,
					e.Rule,
					e.Questions,
					fmt.Sprintf("%d/%d", e.DroppedQuestions, e.DroppedOptions),
					e.PayloadBytes,
				)
			}
			return nil
		})
	},
}

var eventsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		out := cmd.OutOrStdout()

		return withStore(cmd, func(s *store.Store) error {
			events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No LLM events found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Fprintln(out, strings.Repeat("─", 96))
			for _, e := range events {
				if purpose != "" && e.Purpose != purpose {
					continue
				}
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
					e.ID,
					e.Timestamp.Local().Format(timeLayout),
					e.Purpose,
					truncate(e.Model, 28),
					e.InputTokens,
					e.OutputTokens,
					e.LatencyMs,
					ok,
				)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		out := cmd.OutOrStdout()

		return withStore(cmd, func(s *store.Store) error {
			e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			sep := strings.Repeat("─", 60)
			fmt.Fprintf(out, "ID:        %d\n", e.ID)
			fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
			fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
			fmt.Fprintf(out, "Model:     %s\n", e.Model)
			fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
			fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
			fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
			fmt.Fprintf(out, "Success:   %v\n", e.Success)
			if e.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
			}

			for _, part := range []struct{ title, body string }{
				{"REQUEST", e.RequestBody},
				{"RESPONSE", e.ResponseBody},
			} {
				fmt.Fprintln(out)
				fmt.Fprintln(out, sep)
				fmt.Fprintln(out, part.title)
				fmt.Fprintln(out, sep)
				if part.body == "" {
					fmt.Fprintln(out, "(not captured)")
				} else {
					fmt.Fprintln(out, part.body)
				}
			}
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return withStore(cmd, func(s *store.Store) error {
			ctx := cmd.Context()
			byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No LLM usage recorded yet.")
				return nil
			}

			rule := strings.Repeat("─", 72)
			fmt.Fprintln(out, "Usage by Purpose")
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
				"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
			fmt.Fprintln(out, rule)

			var calls, in, outTok int
			for _, u := range byPurpose {
				fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
					u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
				calls += u.Calls
				in += u.InputTokens
				outTok += u.OutputTokens
			}
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, outTok, in+outTok)

			byModel, err := s.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(byModel) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Estimated Cost (USD)")
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
			fmt.Fprintln(out, rule)

			var total float64
			var unknown []string
			for _, u := range byModel {
				cost := llm.LookupCost(u.Model)
				if cost == nil {
					unknown = append(unknown, u.Model)
					fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
						truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
					continue
				}
				c := cost.Cost(u.InputTokens, u.OutputTokens)
				total += c
				fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
					truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
			}

			fmt.Fprintln(out, rule)
			label := "TOTAL"
			if len(unknown) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
			if len(unknown) > 0 {
				fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
			}
			return nil
		})
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	for _, c := range []*cobra.Command{eventsFetchCmd, eventsParseCmd, llmListCmd} {
		c.Flags().IntP("limit", "n", 20, "Number of events to show")
	}
	eventsParseCmd.Flags().Bool("stats", false, "Group runs by winning stage and rule")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. explain)")

	eventsLLMCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
	eventsCmd.AddCommand(eventsFetchCmd, eventsParseCmd, eventsLLMCmd)
}
