package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openshift/videa/pkg/ai"
	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

// NewMatchCommand runs the rule based persona matcher offline, handy for checking how a
// profile would be classified when the completion service is down.
func NewMatchCommand() *cobra.Command {
	var role string
	var months int

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Print the rule based persona match for a role and experience",
		RunE: func(cmd *cobra.Command, args []string) error {
			var profile intakev1.Profile
			if role != "" {
				profile.Role = &role
			}
			if cmd.Flags().Changed("experience-months") {
				profile.ExperienceMonths = &months
			}

			out, err := json.MarshalIndent(ai.RuleBasedMatch(profile), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Job title, e.g. \"team lead\"")
	cmd.Flags().IntVar(&months, "experience-months", 0, "Months of experience in the role")
	return cmd
}
