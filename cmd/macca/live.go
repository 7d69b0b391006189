package main

import (
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Have a free conversation with the coach",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, stream, cleanup, err := startSession(cmd.Context(), coaching.ModeLive)
		if err != nil {
			return err
		}
		defer cleanup()

		return runUI(cmd.Context(), session, stream)
	},
}

func init() {
	rootCmd.AddCommand(liveCmd)
}
