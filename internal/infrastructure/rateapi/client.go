// Package rateapi is the adapter for the external carrier-rate aggregation
// service. It translates between domain models and the service's wire
// format, and gates every call through a circuit breaker.
package rateapi

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

// Config holds rate API client configuration
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

// Client calls the carrier-rate aggregation service. One breaker instance
// per client; failures are tracked independently of the classifier client.
type Client struct {
	httpClient *http.Client
	config     *Config
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a rate API client
func NewClient(config *Config, logger *logging.Logger, m *metrics.Metrics) *Client {
	breakerConfig := resilience.DefaultCircuitBreakerConfig("rate-api")
	if m != nil {
		breakerConfig.InstrumentWith(m)
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		breaker:    resilience.NewCircuitBreaker(breakerConfig, logger.Logger),
		logger:     logger.WithComponent("rate-api"),
		metrics:    m,
	}
}

var _ domain.RateService = (*Client)(nil)

// CreateShipment registers a shipment and returns it with quoted rates
func (c *Client) CreateShipment(ctx context.Context, req domain.ShipmentRequest) (*domain.ShipmentRecord, error) {
	payload := map[string]any{
		"shipment": map[string]any{
			"from_address": toWireAddress(req.From),
			"to_address":   toWireAddress(req.To),
			"parcel": map[string]any{
				"length": req.Parcel.Dimensions.Length,
				"width":  req.Parcel.Dimensions.Width,
				"height": req.Parcel.Dimensions.Height,
				"weight": req.Parcel.WeightOz,
			},
		},
	}
	if req.CustomsInfoID != "" {
		payload["shipment"].(map[string]any)["customs_info"] = map[string]string{"id": req.CustomsInfoID}
	}

	var resp wireShipment
	if err := c.do(ctx, http.MethodPost, "/shipments", "create_shipment", payload, &resp); err != nil {
		return nil, err
	}

	record := &domain.ShipmentRecord{ID: resp.ID}
	for _, wr := range resp.Rates {
		record.Rates = append(record.Rates, wr.toDomain())
	}
	return record, nil
}

// GetRates re-fetches rates for an existing shipment
func (c *Client) GetRates(ctx context.Context, shipmentID string) ([]domain.Rate, error) {
	var resp wireShipment
	path := fmt.Sprintf("/shipments/%s/rates", shipmentID)
	if err := c.do(ctx, http.MethodGet, path, "get_rates", nil, &resp); err != nil {
		return nil, err
	}

	rates := make([]domain.Rate, 0, len(resp.Rates))
	for _, wr := range resp.Rates {
		rates = append(rates, wr.toDomain())
	}
	return rates, nil
}

// BuyLabel purchases a label for the selected rate
func (c *Client) BuyLabel(ctx context.Context, shipmentID string, rate domain.Rate, insuranceAmount float64) (*domain.PurchasedLabel, error) {
	payload := map[string]any{
		"rate": map[string]string{"id": rate.ID},
	}
	if insuranceAmount > 0 {
		payload["insurance"] = fmt.Sprintf("%.2f", insuranceAmount)
	}

	var resp wireBoughtShipment
	path := fmt.Sprintf("/shipments/%s/buy", shipmentID)
	if err := c.do(ctx, http.MethodPost, path, "buy_label", payload, &resp); err != nil {
		return nil, err
	}

	label := &domain.PurchasedLabel{
		TrackingCode: resp.TrackingCode,
		LabelURL:     resp.PostageLabel.LabelURL,
		Carrier:      resp.SelectedRate.Carrier,
		Service:      resp.SelectedRate.Service,
		Rate:         resp.SelectedRate.amount(),
	}
	if label.Carrier == "" {
		label.Carrier = rate.Carrier
	}
	if label.Service == "" {
		label.Service = rate.Service
	}
	return label, nil
}

// CreateCustomsInfo registers a customs declaration and returns its id
func (c *Client) CreateCustomsInfo(ctx context.Context, declaration *domain.CustomsDeclaration) (string, error) {
	items := make([]map[string]any, 0, len(declaration.Items))
	contentsType := "gift"
	for _, item := range declaration.Items {
		if item.Declaration == domain.DeclarationPersonalUse {
			contentsType = "personal_use"
		}
		items = append(items, map[string]any{
			"description":      item.Description,
			"hs_tariff_number": item.HTSCode,
			"quantity":         item.Quantity,
			"value":            item.Value,
			"weight":           item.WeightOz,
			"origin_country":   item.CountryOfOrigin,
		})
	}

	payload := map[string]any{
		"customs_info": map[string]any{
			"contents_type":       contentsType,
			"customs_certify":     true,
			"restriction_comments": declaration.ComplianceNotes,
			"customs_items":       items,
		},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/customs_infos", "create_customs_info", payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// VerifyAddress verifies an address with the carrier network
func (c *Client) VerifyAddress(ctx context.Context, address domain.Address) (*domain.Address, error) {
	payload := map[string]any{
		"address": toWireAddress(address),
		"verify":  []string{"delivery"},
	}

	var resp wireAddress
	if err := c.do(ctx, http.MethodPost, "/addresses", "verify_address", payload, &resp); err != nil {
		return nil, err
	}

	verified := resp.toDomain()
	return &verified, nil
}

// do executes one API call through the circuit breaker
func (c *Client) do(ctx context.Context, method, path, operation string, payload, out any) error {
	start := time.Now()
	_, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, payload, out)
	}, nil)
	if c.metrics != nil {
		c.metrics.RecordExternalCall("rate-api", operation, err, time.Since(start))
	}
	if err != nil {
		c.logger.WithError(err).Warn("Rate API call failed", "operation", operation)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rate api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("rate api %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
