package cmd

import (
	"fmt"

	"github.com/libstack/shelfcheck/internal/matching"
	"github.com/spf13/cobra"
)

func newPolicyCmd() *cobra.Command {
	var policyPath string

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Print the active scoring policy as YAML",
		Long: `Prints the scoring policy that check would use: the ordered decision
rules plus the acceptance threshold and retrieval tunables.

Redirect the output to a file, adjust the numbers, and pass it back with
check --policy to tune matching without a rebuild.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := matching.DefaultPolicy()
			if policyPath != "" {
				var err error
				policy, err = matching.LoadPolicy(policyPath)
				if err != nil {
					return err
				}
			}

			data, err := policy.YAML()
			if err != nil {
				return fmt.Errorf("failed to render policy: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&policyPath, "policy", "", "Policy YAML to load over the defaults before printing")

	return cmd
}
