package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizfeed/internal/app"
	"github.com/abhisek/quizfeed/internal/config"
	"github.com/abhisek/quizfeed/internal/explain"
	"github.com/abhisek/quizfeed/internal/feed"
	"github.com/abhisek/quizfeed/internal/llm"
	"github.com/abhisek/quizfeed/internal/screens"
	"github.com/abhisek/quizfeed/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, pf playFlags) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pf.apply(&cfg)

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	explainer, err := newExplainer(ctx, st.EventRepo(), explain.DefaultConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Explanations for questions without one will be unavailable.")
	}

	return app.Run(ctx, screens.Deps{
		Loader:    feed.NewLoader(newFetcher(cfg, st, pf.file), st.EventRepo()),
		Explainer: explainer,
		Quiz:      cfg.Quiz,
	})
}

// newFetcher returns the live feed fetcher, or a file fetcher when path
// is set.
func newFetcher(cfg config.Config, st *store.Store, path string) feed.Fetcher {
	if path != "" {
		return &feed.FileFetcher{Path: path}
	}
	return feed.NewFetcher(cfg, st)
}

// newExplainer builds the explanation service. On error the returned
// service is disabled but usable.
func newExplainer(ctx context.Context, events store.EventRepo, ecfg explain.Config) (*explain.Service, error) {
	llmCfg, ok := llm.ResolveConfig()
	if !ok {
		return explain.NewService(nil, ecfg), fmt.Errorf("no API key found in the environment")
	}
	provider, err := llm.NewProvider(ctx, llmCfg, events)
	if err != nil {
		return explain.NewService(nil, ecfg), err
	}
	zap.L().Info("llm provider ready",
		zap.String("provider", llmCfg.Provider),
		zap.String("model", provider.ModelID()))
	return explain.NewService(provider, ecfg), nil
}
