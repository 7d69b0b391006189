package main

import (
	"fmt"

	orchestration "github.com/koscakluka/macca-core/core"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/pronunciation"
	"github.com/spf13/cobra"
)

var drillCmd = &cobra.Command{
	Use:   "drill [sound]",
	Short: "Drill the practice words of one sound",
	Long: `Drill the practice words of one sound, e.g. "macca drill θ" or
"macca drill 'R sound'". Without a sound the built-in targets are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			printTargets(cmd)
			return nil
		}

		target, ok := pronunciation.FindTarget(args[0])
		if !ok {
			return fmt.Errorf("unknown sound %q, run macca drill to list them", args[0])
		}

		session, stream, cleanup, err := startSession(cmd.Context(), coaching.ModePronunciation, orchestration.WithDrillTarget(target))
		if err != nil {
			return err
		}
		defer cleanup()

		return runUI(cmd.Context(), session, stream)
	},
}

func printTargets(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	for _, target := range pronunciation.Targets() {
		fmt.Fprintf(out, "%-6s %-16s %-7s %v\n", target.Sound, target.Name, target.Difficulty, target.Examples)
	}
}

func init() {
	rootCmd.AddCommand(drillCmd)
}
