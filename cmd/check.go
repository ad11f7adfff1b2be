package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/libstack/shelfcheck/internal/catalog"
	"github.com/libstack/shelfcheck/internal/engine"
	"github.com/libstack/shelfcheck/internal/ingest"
	"github.com/libstack/shelfcheck/internal/matching"
	"github.com/libstack/shelfcheck/internal/report"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var (
		catalogPath string
		refsPath    string
		policyPath  string
		outputPath  string
		format      string
		concurrency int
		threshold   int
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Match a reference list against an inventory catalog",
		Long: `Runs the full matching pipeline: builds the catalog index once, then
decides every reference in input order and writes one result record each.

The catalog file needs title and author columns (detected from headers);
quantity and edition-year columns are optional. References come from a
plain-text file (one citation per line), CSV, JSONL or Parquet.`,
		Example: `  # Check references, print a text report
  shelfcheck check --catalog inventory.csv --references citations.txt

  # Export a CSV for a spreadsheet, with a tuned policy
  shelfcheck check -c inventory.csv -r citations.csv --policy policy.yaml \
    --format csv --output results.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := matching.DefaultPolicy()
			if policyPath == "" {
				policyPath = os.Getenv("SHELFCHECK_POLICY")
			}
			if policyPath != "" {
				var err error
				policy, err = matching.LoadPolicy(policyPath)
				if err != nil {
					return err
				}
				slog.Info("Loaded scoring policy", "path", policyPath)
			}
			if threshold > 0 {
				policy.Threshold = threshold
			}
			if limit > 0 {
				policy.RetrievalLimit = limit
			}
			if err := policy.Check(); err != nil {
				return fmt.Errorf("invalid policy: %w", err)
			}

			rows, err := ingest.LoadCatalog(catalogPath)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			index := catalog.BuildIndex(rows)
			slog.Info("Catalog indexed",
				"rows", len(rows), "entries", len(index.Entries),
				"merged", index.Merged, "skipped", index.Skipped)
			if len(index.Entries) == 0 {
				slog.Warn("Catalog has no usable entries; every reference will resolve to NOT_FOUND")
			}

			refs, err := ingest.LoadReferences(refsPath)
			if err != nil {
				return fmt.Errorf("failed to load references: %w", err)
			}
			slog.Info("References loaded", "count", len(refs))

			runner := engine.Runner{
				Engine:      engine.New(index, policy),
				Concurrency: concurrency,
			}
			results := runner.Run(cmd.Context(), refs)
			summary := report.Summarize(results)

			var out io.Writer = os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "text":
				err = report.WriteText(out, results, summary)
			case "csv":
				err = report.WriteCSV(out, results)
			case "json":
				err = report.WriteJSON(out, results, summary)
			case "yaml":
				err = report.WriteYAML(out, results, summary)
			default:
				return fmt.Errorf("unsupported format: %s (supported: text, csv, json, yaml)", format)
			}
			if err != nil {
				return err
			}

			if outputPath != "" {
				fmt.Printf("Results written to: %s\n", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Inventory catalog file (.csv, .jsonl, .parquet)")
	cmd.Flags().StringVarP(&refsPath, "references", "r", "", "Reference list file (.txt, .csv, .jsonl, .parquet)")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Scoring policy YAML (default: built-in policy, or $SHELFCHECK_POLICY)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, csv, json, yaml")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Parallel reference workers")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Override the acceptance threshold (0 = policy value)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Override the candidate retrieval breadth (0 = policy value)")

	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("references")

	return cmd
}
