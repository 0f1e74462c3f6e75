package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
)

func TestUploadCmd_Use(t *testing.T) {
	assert.Equal(t, "upload [directory]", uploadCmd.Use)
}

func TestUploadCmd_Short(t *testing.T) {
	assert.Equal(t, "Chunk, embed and upsert all text files in a directory", uploadCmd.Short)
}

func TestUploadCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"upload"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestUploadCmd_FailsWithoutFactory(t *testing.T) {
	previous := factory
	factory = nil
	defer func() { factory = previous }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"upload", "./docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline not configured")
}

func TestUploadCmd_PrintsSummary(t *testing.T) {
	up := &stubUploader{report: &domain.UploadReport{
		RunID:             "run",
		Documents:         3,
		DocumentsUploaded: 2,
		DocumentsSkipped:  1,
		ChunksConsidered:  7,
		ChunksEmbedded:    6,
		VectorsUpserted:   6,
	}}
	cleanup := setupTestPipeline(up, &stubValidator{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"upload", "./docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "./docs", up.dir)
	out := buf.String()
	assert.Contains(t, out, "Upload complete.")
	assert.Contains(t, out, "Documents: 3 found, 2 uploaded, 1 skipped")
	assert.Contains(t, out, "Chunks:    7 considered, 6 embedded")
	assert.Contains(t, out, "Vectors:   6 upserted")
	assert.NotContains(t, out, "batches failed")
}

func TestUploadCmd_ReportsFailedBatchesAndInterrupt(t *testing.T) {
	up := &stubUploader{report: &domain.UploadReport{
		Documents:       2,
		VectorsUpserted: 100,
		BatchesFailed:   1,
		Interrupted:     true,
	}}
	cleanup := setupTestPipeline(up, &stubValidator{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"upload", "./docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Upload interrupted by user; totals are partial.")
	assert.Contains(t, out, "(1 batches failed and were dropped)")
}

func TestUploadCmd_PropagatesServiceError(t *testing.T) {
	up := &stubUploader{
		report: &domain.UploadReport{},
		err:    errors.New("index never became ready"),
	}
	cleanup := setupTestPipeline(up, &stubValidator{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"upload", "./docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upload failed")
	assert.Contains(t, err.Error(), "index never became ready")
}
