// Package classify is the adapter for the external classification and
// address validation service.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parcelworks/label-service/internal/domain"
	"github.com/parcelworks/label-service/pkg/logging"
	"github.com/parcelworks/label-service/pkg/metrics"
	"github.com/parcelworks/label-service/pkg/resilience"
)

// Config holds classification client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// Client calls the classification/validation service. It owns its own
// circuit breaker, independent of the rate API client.
type Client struct {
	httpClient *http.Client
	config     *Config
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a classification client
func NewClient(config *Config, logger *logging.Logger, m *metrics.Metrics) *Client {
	breakerConfig := resilience.DefaultCircuitBreakerConfig("classifier")
	if m != nil {
		breakerConfig.InstrumentWith(m)
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		breaker:    resilience.NewCircuitBreaker(breakerConfig, logger.Logger),
		logger:     logger.WithComponent("classifier"),
		metrics:    m,
	}
}

var (
	_ domain.HTSClassifier    = (*Client)(nil)
	_ domain.AddressValidator = (*Client)(nil)
)

// LookupHTS resolves a tariff classification for a product description
func (c *Client) LookupHTS(ctx context.Context, description, destinationCountry string) (*domain.Classification, error) {
	payload := map[string]string{
		"description":         description,
		"destination_country": destinationCountry,
	}

	var resp domain.Classification
	if err := c.do(ctx, "/classify", "lookup_hts", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateAddress validates an address and returns a confidence score
func (c *Client) ValidateAddress(ctx context.Context, address domain.Address) (*domain.AddressValidation, error) {
	payload := map[string]any{"address": address}

	var resp struct {
		Validated  domain.Address `json:"validated"`
		Valid      bool           `json:"valid"`
		Confidence float64        `json:"confidence"`
	}
	if err := c.do(ctx, "/validate-address", "validate_address", payload, &resp); err != nil {
		return nil, err
	}

	return &domain.AddressValidation{
		Validated:  resp.Validated,
		Valid:      resp.Valid,
		Confidence: resp.Confidence,
	}, nil
}

func (c *Client) do(ctx context.Context, path, operation string, payload, out any) error {
	start := time.Now()
	_, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, c.roundTrip(ctx, path, payload, out)
	}, nil)
	if c.metrics != nil {
		c.metrics.RecordExternalCall("classifier", operation, err, time.Since(start))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("classifier %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("classifier %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
