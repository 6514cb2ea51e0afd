package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizfeed/internal/config"
)

// playFlags override the quiz section of the config for one run.
type playFlags struct {
	timeLimit    time.Duration
	hasTimeLimit bool
	noShuffle    bool
	file         string
}

func (pf playFlags) apply(cfg *config.Config) {
	if pf.hasTimeLimit {
		cfg.Quiz.TimeLimit = pf.timeLimit
	}
	if pf.noShuffle {
		cfg.Quiz.ShuffleQuestions = false
		cfg.Quiz.ShuffleOptions = false
	}
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz",
	Long: `Start a quiz in the terminal UI.

Questions come from the configured feed unless --file points at a saved
payload, which is useful for replaying a broken response offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var pf playFlags
		pf.timeLimit, _ = cmd.Flags().GetDuration("time-limit")
		pf.hasTimeLimit = cmd.Flags().Changed("time-limit")
		pf.noShuffle, _ = cmd.Flags().GetBool("no-shuffle")
		pf.file, _ = cmd.Flags().GetString("file")
		return runApp(cmd, pf)
	},
}

func init() {
	playCmd.Flags().Duration("time-limit", 0, "Countdown for the round, 0 disables it (default from config)")
	playCmd.Flags().Bool("no-shuffle", false, "Keep questions and options in feed order")
	playCmd.Flags().String("file", "", "Play from a payload file instead of the live feed")
}
