package rateapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/label-service/internal/domain"
	"github.com/parcelworks/label-service/pkg/logging"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logging.New(&logging.Config{Level: logging.LevelError, ServiceName: "test", Output: io.Discard})
	client := NewClient(&Config{BaseURL: server.URL, APIKey: "test-key", Timeout: 5 * time.Second}, logger, nil)
	return client, server
}

func testShipmentRequest() domain.ShipmentRequest {
	return domain.ShipmentRequest{
		From: domain.Address{Name: "Dana Lee", Street1: "2801 E Vernon Ave", City: "Los Angeles", State: "CA", Zip: "90058", Country: "US"},
		To:   domain.Address{Name: "Lena Fischer", Street1: "Torstrasse 140", City: "Berlin", Zip: "10119", Country: "DE"},
		Parcel: domain.Parcel{
			Dimensions: domain.Dimensions{Length: 10, Width: 8, Height: 4},
			WeightOz:   27.2,
		},
	}
}

// TestCreateShipment tests shipment creation and rate decoding
func TestCreateShipment(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shipments", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"id": "shp_123",
			"rates": []map[string]any{
				{"id": "rate_1", "carrier": "USPS", "service": "PriorityMailInternational", "rate": "32.40", "currency": "USD", "delivery_days": 8},
				{"id": "rate_2", "carrier": "FedEx", "service": "FEDEX_INTERNATIONAL_PRIORITY", "rate": "61.20", "currency": "USD"},
			},
		})
	}))

	record, err := client.CreateShipment(context.Background(), testShipmentRequest())
	require.NoError(t, err)

	assert.Equal(t, "shp_123", record.ID)
	require.Len(t, record.Rates, 2)
	assert.Equal(t, 32.40, record.Rates[0].Amount)
	assert.Equal(t, "USD", record.Rates[0].Currency)
	assert.Equal(t, 8, record.Rates[0].DeliveryDays)

	shipment := captured["shipment"].(map[string]any)
	parcel := shipment["parcel"].(map[string]any)
	assert.Equal(t, 27.2, parcel["weight"])
	assert.NotContains(t, shipment, "customs_info")
}

// TestCreateShipmentWithCustoms tests customs info attachment
func TestCreateShipmentWithCustoms(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{"id": "shp_123"})
	}))

	req := testShipmentRequest()
	req.CustomsInfoID = "cstinfo_9"
	_, err := client.CreateShipment(context.Background(), req)
	require.NoError(t, err)

	shipment := captured["shipment"].(map[string]any)
	customs := shipment["customs_info"].(map[string]any)
	assert.Equal(t, "cstinfo_9", customs["id"])
}

// TestBuyLabel tests label purchase decoding
func TestBuyLabel(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shipments/shp_123/buy", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&captured)

		json.NewEncoder(w).Encode(map[string]any{
			"id":            "shp_123",
			"tracking_code": "TRK42",
			"selected_rate": map[string]any{"carrier": "USPS", "service": "PriorityMailInternational", "rate": "32.40"},
			"postage_label": map[string]any{"label_url": "https://labels.example.com/shp_123.png"},
		})
	}))

	rate := domain.Rate{ID: "rate_1", Carrier: "USPS", Service: "PriorityMailInternational", Amount: 32.40}
	label, err := client.BuyLabel(context.Background(), "shp_123", rate, 75)
	require.NoError(t, err)

	assert.Equal(t, "TRK42", label.TrackingCode)
	assert.Equal(t, "https://labels.example.com/shp_123.png", label.LabelURL)
	assert.Equal(t, 32.40, label.Rate)
	assert.Equal(t, "75.00", captured["insurance"])
}

// TestBuyLabelFillsMissingCarrier tests fallback to the selected rate
func TestBuyLabelFillsMissingCarrier(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"tracking_code": "TRK42",
			"postage_label": map[string]any{"label_url": "https://labels.example.com/x.png"},
		})
	}))

	rate := domain.Rate{ID: "rate_1", Carrier: "UPS", Service: "Standard"}
	label, err := client.BuyLabel(context.Background(), "shp_123", rate, 0)
	require.NoError(t, err)

	assert.Equal(t, "UPS", label.Carrier)
	assert.Equal(t, "Standard", label.Service)
}

// TestCreateCustomsInfo tests declaration encoding
func TestCreateCustomsInfo(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customs_infos", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{"id": "cstinfo_1"})
	}))

	declaration := &domain.CustomsDeclaration{
		FormType: domain.FormTypeCN22,
		Items: []domain.CustomsItem{
			{Description: "Denim Jeans", HTSCode: "6204.62.8011", Quantity: 2, Value: 100, WeightOz: 38.4, CountryOfOrigin: "US", Declaration: domain.DeclarationPersonalUse},
		},
		TotalValue:      100,
		ComplianceNotes: "Germany: EU import VAT applies",
	}

	id, err := client.CreateCustomsInfo(context.Background(), declaration)
	require.NoError(t, err)
	assert.Equal(t, "cstinfo_1", id)

	info := captured["customs_info"].(map[string]any)
	assert.Equal(t, "personal_use", info["contents_type"])
	items := info["customs_items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "6204.62.8011", items[0].(map[string]any)["hs_tariff_number"])
}

// TestClientErrorResponses tests non-2xx handling
func TestClientErrorResponses(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": {"message": "invalid address"}}`))
	}))

	_, err := client.CreateShipment(context.Background(), testShipmentRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "invalid address")
}
