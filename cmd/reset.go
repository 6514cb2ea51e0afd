package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizfeed/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete recorded events and cached payloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this deletes every event and cached payload; rerun with --yes to confirm")
		}
		return withStore(cmd, func(s *store.Store) error {
			if err := s.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Events and cached payloads cleared.")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
