package main

import (
	"fmt"

	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/internal/utils"
	"github.com/spf13/cobra"
)

var profileUpdate struct {
	name, level, goal, language string
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your learner profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := newBackend(configFrom(cmd.Context()))

		var update coaching.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			update.Name = utils.Ptr(profileUpdate.name)
		}
		if flags.Changed("level") {
			update.Level = utils.Ptr(profileUpdate.level)
		}
		if flags.Changed("goal") {
			update.Goal = utils.Ptr(profileUpdate.goal)
		}
		if flags.Changed("lang") {
			update.ExplanationLanguage = utils.Ptr(profileUpdate.language)
		}

		var (
			profile coaching.Profile
			err     error
		)
		if update.IsEmpty() {
			profile, err = backend.FetchProfile(cmd.Context())
		} else {
			profile, err = backend.UpdateProfile(cmd.Context(), update)
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", titleStyle.Render(profile.Name))
		fmt.Fprintf(out, "level: %s\ngoal: %s\ntips in: %s\n", profile.Level, profile.Goal, profile.ExplanationLanguage)
		return nil
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileUpdate.name, "name", "", "your name")
	profileCmd.Flags().StringVar(&profileUpdate.level, "level", "", "CEFR level, A1 to C2")
	profileCmd.Flags().StringVar(&profileUpdate.goal, "goal", "", "job_interview, study or daily_conversation")
	profileCmd.Flags().StringVar(&profileUpdate.language, "lang", "", "language tips are explained in: id or en")
	rootCmd.AddCommand(profileCmd)
}
