package cli

import (
	"context"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driving"
)

// stubUploader returns a canned report and records the directory.
type stubUploader struct {
	report *domain.UploadReport
	err    error
	dir    string
}

func (s *stubUploader) UploadDirectory(_ context.Context, dir string) (*domain.UploadReport, error) {
	s.dir = dir
	return s.report, s.err
}

// stubValidator returns a canned report and records the options.
type stubValidator struct {
	report *domain.ValidationReport
	err    error
	dir    string
	opts   driving.ValidateOptions
}

func (s *stubValidator) ValidateDirectory(_ context.Context, dir string, opts driving.ValidateOptions) (*domain.ValidationReport, error) {
	s.dir = dir
	s.opts = opts
	return s.report, s.err
}

// setupTestPipeline installs a factory serving the given stubs and
// returns a cleanup restoring the previous state.
func setupTestPipeline(up *stubUploader, val *stubValidator) func() {
	previous := factory
	SetFactory(func(string) (*Pipeline, error) {
		return &Pipeline{Uploader: up, Validator: val}, nil
	})
	return func() {
		factory = previous
		validateStrict = false
	}
}
