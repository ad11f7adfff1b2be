package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "shelfcheck",
		Short: "Check bibliographic references against a library inventory catalog",
		Long: `Shelfcheck resolves free-text bibliographic citations against a structured
inventory catalog to determine whether each cited title is held, how many
copies exist, and whether the held editions are recent enough.

Matching is deterministic and explainable: references and catalog rows are
normalized into token sets, candidates are retrieved by containment
similarity, and an ordered rule table turns title and author evidence into
a calibrated confidence with a human-readable reason.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newPolicyCmd())

	return cmd
}
