package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/textvec-cli/internal/core/ports/driving"
)

var validateCmd = &cobra.Command{
	Use:   "validate [directory]",
	Short: "Check that a directory's documents are present in the index",
	Long: `Recomputes each document's expected chunk identifiers with the same
deterministic chunking the upload path uses, fetches them from the index
and reports Found or Not Found per document, without re-embedding.

By default a document counts as Found when any of its expected chunks is
present. With --strict, every expected chunk must be present.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

// validateStrict is a flag for the validate command.
var validateStrict bool

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"Require all expected chunks, not just one, to be present")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := p.Validator.ValidateDirectory(ctx, args[0], driving.ValidateOptions{
		Strict: validateStrict,
	})
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	cmd.Println()
	if report.Interrupted {
		cmd.Println("Validation interrupted by user; totals are partial.")
	} else {
		cmd.Println("Validation complete.")
	}
	cmd.Printf("Found:     %d\n", report.Found)
	cmd.Printf("Not Found: %d\n", report.NotFound)
	if report.Skipped > 0 {
		cmd.Printf("Skipped:   %d\n", report.Skipped)
	}
	return nil
}
