package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [directory]",
	Short: "Chunk, embed and upsert all text files in a directory",
	Long: `Processes every .txt file in the directory in stable order: splits it
into token-bounded overlapping chunks, embeds each chunk and upserts the
vectors in batches. The index is created on first use.

Re-running is safe: chunk identifiers are deterministic and upsert
overwrites, so a completed document converges to the same index state.
An interrupt stops the run after the current document and prints partial
totals.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := p.Uploader.UploadDirectory(ctx, args[0])
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Println()
	if report.Interrupted {
		cmd.Println("Upload interrupted by user; totals are partial.")
	} else {
		cmd.Println("Upload complete.")
	}
	cmd.Printf("Documents: %d found, %d uploaded, %d skipped\n",
		report.Documents, report.DocumentsUploaded, report.DocumentsSkipped)
	cmd.Printf("Chunks:    %d considered, %d embedded\n",
		report.ChunksConsidered, report.ChunksEmbedded)
	cmd.Printf("Vectors:   %d upserted", report.VectorsUpserted)
	if report.BatchesFailed > 0 {
		cmd.Printf(" (%d batches failed and were dropped)", report.BatchesFailed)
	}
	cmd.Println()
	return nil
}
