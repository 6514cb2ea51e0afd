package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizfeed/internal/mockfeed"
)

var serveFixtureCmd = &cobra.Command{
	Use:   "serve-fixture",
	Short: "Serve a local copy of the feed, optionally corrupted",
	Long: `Serve a payload at the feed path so the fetcher, retry and repair paths can
be exercised without the real endpoint. Point the app at it with
QUIZFEED_FEED_URL=http://<addr>` + mockfeed.FeedPath + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		corrupt, _ := cmd.Flags().GetString("corrupt")
		failureRate, _ := cmd.Flags().GetFloat64("failure-rate")
		latency, _ := cmd.Flags().GetDuration("latency")
		payloadPath, _ := cmd.Flags().GetString("payload")
		seed, _ := cmd.Flags().GetUint64("seed")

		if _, err := loadConfig(cmd); err != nil {
			return err
		}

		mode, err := mockfeed.ParseCorruption(corrupt)
		if err != nil {
			return err
		}
		if failureRate < 0 || failureRate > 1 {
			return fmt.Errorf("--failure-rate must be between 0 and 1, got %v", failureRate)
		}

		opts := mockfeed.Options{
			Corruption:  mode,
			FailureRate: failureRate,
			Latency:     latency,
			Seed:        seed,
		}
		if payloadPath != "" {
			if opts.Payload, err = os.ReadFile(payloadPath); err != nil {
				return fmt.Errorf("read payload: %w", err)
			}
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           mockfeed.NewServer(opts),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx := cmd.Context()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		label := string(mode)
		if mode == mockfeed.CorruptNone {
			label = "none"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Serving http://%s%s (corruption: %s)\n", addr, mockfeed.FeedPath, label)
		zap.L().Info("fixture server listening",
			zap.String("addr", addr),
			zap.String("corruption", label),
			zap.Float64("failure_rate", failureRate))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveFixtureCmd.Flags().String("addr", "127.0.0.1:8089", "Listen address")
	serveFixtureCmd.Flags().String("corrupt", "none", "Corruption: none, embedded-quotes, bom, truncated")
	serveFixtureCmd.Flags().Float64("failure-rate", 0, "Fraction of requests answered with 503")
	serveFixtureCmd.Flags().Duration("latency", 0, "Delay before each response")
	serveFixtureCmd.Flags().String("payload", "", "Serve this file instead of the built-in sample")
	serveFixtureCmd.Flags().Uint64("seed", 1, "Seed for the failure sampling")
}
