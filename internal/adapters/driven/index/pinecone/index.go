// Package pinecone provides a vector index adapter using the Pinecone REST API.
//
// Index lifecycle (create, describe) goes through the control plane;
// upsert and fetch go to the per-index data-plane host returned by
// describe.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veldt-labs/textvec-cli/internal/core/domain"
	"github.com/veldt-labs/textvec-cli/internal/core/ports/driven"
	"github.com/veldt-labs/textvec-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultControllerURL = "https://api.pinecone.io"
	DefaultMetric        = "cosine"
	DefaultCloud         = "aws"
	DefaultRegion        = "us-east-1"
	DefaultTimeout       = 30 * time.Second
	DefaultReadyTimeout  = 15 * time.Second
	DefaultReadyPoll     = 2 * time.Second

	apiVersion = "2025-01"
)

// Config holds configuration for the Pinecone index adapter.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName is the index this adapter is bound to (required).
	IndexName string

	// Dimension is the vector dimension used when the index must be
	// created (required).
	Dimension int

	// Metric is the similarity metric (default: cosine).
	Metric string

	// Cloud and Region place a newly created serverless index
	// (defaults: aws, us-east-1).
	Cloud  string
	Region string

	// ControllerURL is the control-plane base URL. Overridable for tests.
	ControllerURL string

	// Host overrides data-plane host resolution. Overridable for tests;
	// normally resolved from describe.
	Host string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// ReadyTimeout bounds the wait for a new index to become ready
	// (default: 15s). ReadyPoll is the poll interval (default: 2s).
	ReadyTimeout time.Duration
	ReadyPoll    time.Duration
}

// Index talks to one named Pinecone index.
type Index struct {
	client *http.Client
	cfg    Config
	host   string
}

// describeResponse is the control-plane index description.
type describeResponse struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	Status struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// statusError carries a non-2xx API response so callers can branch on
// the status code instead of the message text.
type statusError struct {
	status int
	method string
	url    string
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("pinecone %s %s (status %d): %s", e.method, e.url, e.status, e.body)
}

// isStatus reports whether err is a statusError with the given code.
func isStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == code
}

// vectorPayload is the data-plane wire format for a vector.
type vectorPayload struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// New creates a Pinecone index adapter.
func New(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: %w: PINECONE_API_KEY not set", domain.ErrMissingCredentials)
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("pinecone: %w: index name is required", domain.ErrInvalidInput)
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("pinecone: %w: dimension must be positive", domain.ErrInvalidInput)
	}
	if cfg.ControllerURL == "" {
		cfg.ControllerURL = DefaultControllerURL
	}
	if cfg.Metric == "" {
		cfg.Metric = DefaultMetric
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	if cfg.ReadyPoll == 0 {
		cfg.ReadyPoll = DefaultReadyPoll
	}

	return &Index{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		host:   normaliseHost(cfg.Host),
	}, nil
}

// EnsureIndex creates the index if absent and blocks until it is ready.
// An index that does not become ready within ReadyTimeout is fatal: the
// pipeline must not upload against an unready index.
func (x *Index) EnsureIndex(ctx context.Context) error {
	desc, err := x.describe(ctx)
	switch {
	case err == nil:
		if ready(desc) {
			x.host = normaliseHost(desc.Host)
			return nil
		}
	case isStatus(err, http.StatusNotFound):
		if err := x.create(ctx); err != nil {
			return err
		}
	default:
		return err
	}

	return x.waitUntilReady(ctx)
}

// Upsert writes a batch of vectors. Same-ID writes overwrite.
func (x *Index) Upsert(ctx context.Context, vectors []domain.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	if err := x.connect(ctx); err != nil {
		return err
	}

	payload := make([]vectorPayload, 0, len(vectors))
	for _, v := range vectors {
		payload = append(payload, vectorPayload{ID: v.ID, Values: v.Values, Metadata: v.Metadata})
	}

	body := map[string]any{"vectors": payload}
	return x.doJSON(ctx, http.MethodPost, x.host+"/vectors/upsert", body, nil)
}

// Fetch returns stored vectors keyed by ID; absent IDs are omitted.
func (x *Index) Fetch(ctx context.Context, ids []string) (map[string]domain.Vector, error) {
	if err := x.connect(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	for _, id := range ids {
		q.Add("ids", id)
	}

	var resp struct {
		Vectors map[string]vectorPayload `json:"vectors"`
	}
	if err := x.doJSON(ctx, http.MethodGet, x.host+"/vectors/fetch?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	found := make(map[string]domain.Vector, len(resp.Vectors))
	for id, v := range resp.Vectors {
		found[id] = domain.Vector{ID: id, Values: v.Values, Metadata: v.Metadata}
	}
	return found, nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// connect resolves the data-plane host if not yet known. Unlike
// EnsureIndex it never creates: the validation path must fail on a
// missing index, not materialise an empty one.
func (x *Index) connect(ctx context.Context) error {
	if x.host != "" {
		return nil
	}
	desc, err := x.describe(ctx)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return fmt.Errorf("pinecone: index %q: %w", x.cfg.IndexName, domain.ErrNotFound)
		}
		return err
	}
	x.host = normaliseHost(desc.Host)
	return nil
}

func (x *Index) describe(ctx context.Context) (*describeResponse, error) {
	var desc describeResponse
	err := x.doJSON(ctx, http.MethodGet, x.cfg.ControllerURL+"/indexes/"+x.cfg.IndexName, nil, &desc)
	if err != nil {
		return nil, err
	}
	return &desc, nil
}

func (x *Index) create(ctx context.Context) error {
	body := map[string]any{
		"name":      x.cfg.IndexName,
		"dimension": x.cfg.Dimension,
		"metric":    x.cfg.Metric,
		"spec": map[string]any{
			"serverless": map[string]any{
				"cloud":  x.cfg.Cloud,
				"region": x.cfg.Region,
			},
		},
	}
	err := x.doJSON(ctx, http.MethodPost, x.cfg.ControllerURL+"/indexes", body, nil)
	if err != nil && isStatus(err, http.StatusConflict) {
		// Created concurrently; describe will confirm.
		return nil
	}
	return err
}

// waitUntilReady polls describe until the index reports ready.
func (x *Index) waitUntilReady(ctx context.Context) error {
	deadline := time.Now().Add(x.cfg.ReadyTimeout)
	for {
		desc, err := x.describe(ctx)
		if err == nil && ready(desc) {
			x.host = normaliseHost(desc.Host)
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("pinecone: index %q after %s: %w",
				x.cfg.IndexName, x.cfg.ReadyTimeout, domain.ErrIndexNotReady)
		}

		state := "unknown"
		if desc != nil {
			state = desc.Status.State
		}
		logger.Debug("waiting for index %s (state: %s)", x.cfg.IndexName, state)
		time.Sleep(x.cfg.ReadyPoll)
	}
}

func ready(desc *describeResponse) bool {
	return desc.Status.Ready || desc.Status.State == "Ready"
}

// doJSON performs one request with Pinecone headers, optionally encoding
// a JSON body and decoding a JSON response.
func (x *Index) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", x.cfg.APIKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return &statusError{
			status: resp.StatusCode,
			method: method,
			url:    rawURL,
			body:   strings.TrimSpace(string(data)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// normaliseHost ensures the data-plane host carries a scheme.
func normaliseHost(host string) string {
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
