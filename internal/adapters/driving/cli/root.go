// Package cli provides the textvec command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/textvec-cli/internal/core/ports/driving"
	"github.com/veldt-labs/textvec-cli/internal/logger"
)

// version is the build version, overridable via SetVersion.
var version = "dev"

// Pipeline bundles the services the commands drive.
type Pipeline struct {
	Uploader  driving.Uploader
	Validator driving.Validator
}

// Factory constructs the pipeline once flags are parsed. Injected by the
// composition root so commands stay free of wiring.
type Factory func(configPath string) (*Pipeline, error)

var factory Factory

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "textvec",
	Short: "Turn extracted document text into indexed embedding vectors",
	Long: `textvec splits extracted text files into token-bounded overlapping
chunks, embeds each chunk and upserts the vectors into a vector index
under deterministic content-derived identifiers.

The validate command re-derives the same identifiers without re-embedding
and reports which documents are present in the index.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to TOML config file (default textvec.toml)")
}

// SetFactory injects the pipeline constructor.
func SetFactory(f Factory) {
	factory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildPipeline constructs the services for a command run.
func buildPipeline() (*Pipeline, error) {
	if factory == nil {
		return nil, errors.New("pipeline not configured")
	}
	return factory(flagConfig)
}
