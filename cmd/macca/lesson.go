package main

import (
	"fmt"

	orchestration "github.com/koscakluka/macca-core/core"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/spf13/cobra"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson <id>",
	Short: "Work through a guided lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, stream, cleanup, err := startSession(cmd.Context(), coaching.ModeGuided, orchestration.WithLessonID(args[0]))
		if err != nil {
			return err
		}
		defer cleanup()

		return runUI(cmd.Context(), session, stream)
	},
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List the available guided lessons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lessons, err := newBackend(configFrom(cmd.Context())).ListLessons(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list lessons: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, lesson := range lessons {
			fmt.Fprintf(out, "%s\t%s\n", lesson.ID, titleStyle.Render(lesson.Title))
			fmt.Fprintf(out, "\t%s\n", lesson.Subtitle)
			for i, step := range lesson.Steps {
				fmt.Fprintf(out, "\t  %d. %s\n", i+1, step)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(lessonsCmd)
}
