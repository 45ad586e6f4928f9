package application

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/parcelworks/label-service/internal/domain"
	"github.com/parcelworks/label-service/internal/infrastructure/events"
	"github.com/parcelworks/label-service/internal/normalize"
	"github.com/parcelworks/label-service/pkg/logging"
	"github.com/parcelworks/label-service/pkg/metrics"
	"github.com/parcelworks/label-service/pkg/resilience"
)

// maxStackExcerpt bounds the stack excerpt included in failure payloads
const maxStackExcerpt = 1200

// DefaultCallTimeout bounds each external service call
const DefaultCallTimeout = 30 * time.Second

// LabelService sequences the shipment assembly pipeline: normalization,
// ship-from selection, weight buffering, customs, rate selection and label
// purchase.
type LabelService struct {
	parser      *normalize.Parser
	rates       domain.RateService
	validator   domain.AddressValidator
	customs     *domain.CustomsBuilder
	events      *events.Publisher
	logger      *logging.Logger
	metrics     *metrics.Metrics
	retry       *resilience.RetryConfig
	callTimeout time.Duration
}

// NewLabelService creates the orchestrator. validator and publisher may be
// nil; the corresponding steps are skipped.
func NewLabelService(
	parser *normalize.Parser,
	rates domain.RateService,
	validator domain.AddressValidator,
	customs *domain.CustomsBuilder,
	publisher *events.Publisher,
	logger *logging.Logger,
	m *metrics.Metrics,
) *LabelService {
	return &LabelService{
		parser:      parser,
		rates:       rates,
		validator:   validator,
		customs:     customs,
		events:      publisher,
		logger:      logger.WithComponent("label-service"),
		metrics:     m,
		retry:       resilience.DefaultRetryConfig(),
		callTimeout: DefaultCallTimeout,
	}
}

// CreateShippingLabel runs the end-to-end pipeline. Any error or panic is
// converted into a structured failure payload; the caller always receives a
// well-formed outcome.
func (s *LabelService) CreateShippingLabel(ctx context.Context, cmd CreateLabelCommand) (outcome *LabelOutcome) {
	var diag FailureContext

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic during label creation", "panic", r)
			outcome = s.failure(fmt.Errorf("unexpected failure: %v", r), diag)
		}
	}()

	in := s.parser.Parse(cmd.InputData)
	if cmd.ShipFromOverride != "" {
		in.ShipFromState = cmd.ShipFromOverride
	}
	if cmd.ServiceLevel != "" {
		in.ServiceLevel = cmd.ServiceLevel
	}

	international := in.IsInternational()
	diag.RecipientCity = in.Recipient.City
	diag.International = international

	sender := s.resolveSender(in)

	weight := domain.ConvertAndBuffer(in.WeightLbs, in.ProductDetails)
	diag.ReportedWeightOz = weight.ReportedWeightOz

	warnings := make([]string, 0, 2)

	validationStatus := ValidationStatusSkipped
	if s.validator != nil {
		validationStatus, warnings = s.validateRecipient(ctx, in.Recipient, warnings)
	}

	var declaration *domain.CustomsDeclaration
	customsInfoID := ""
	if international {
		declaration, customsInfoID, warnings = s.buildCustoms(ctx, in, warnings)
	}

	record, err := s.createShipment(ctx, sender, in, weight, customsInfoID)
	if err != nil {
		return s.failure(err, diag)
	}

	if len(record.Rates) == 0 {
		return s.failure(fmt.Errorf("no rates returned for shipment %s", record.ID), diag)
	}

	rate, _ := domain.SelectRate(record.Rates, in.PreferredCarrier)

	buyCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	purchased, err := s.rates.BuyLabel(buyCtx, record.ID, rate, cmd.InsuranceAmount)
	if err != nil {
		return s.failure(fmt.Errorf("label purchase failed for shipment %s: %w", record.ID, err), diag)
	}

	result := &LabelResult{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		ShipmentID: record.ID,
		Sender:     sender,
		Recipient:  in.Recipient,
		Package: PackageDTO{
			Dimensions:       in.Dimensions,
			ReportedWeightOz: weight.ReportedWeightOz,
			FullParcelOz:     weight.FullParcelOz,
		},
		Customs:      declaration,
		TrackingCode: purchased.TrackingCode,
		LabelURL:     purchased.LabelURL,
		Metadata: LabelMetadata{
			ServiceProvider:  purchased.Carrier,
			Service:          purchased.Service,
			EstimatedCost:    purchased.Rate,
			International:    international,
			ValidationStatus: validationStatus,
			Warnings:         warnings,
		},
	}

	if s.metrics != nil {
		s.metrics.RecordLabelPurchased(purchased.Carrier, international)
	}
	s.events.PublishLabelPurchased(ctx, events.LabelPurchasedEvent{
		LabelID:       result.ID,
		ShipmentID:    record.ID,
		Carrier:       purchased.Carrier,
		Service:       purchased.Service,
		TrackingCode:  purchased.TrackingCode,
		Cost:          purchased.Rate,
		International: international,
		PurchasedAt:   result.Timestamp,
	})

	s.logger.Info("Purchased shipping label",
		"labelId", result.ID,
		"shipmentId", record.ID,
		"carrier", purchased.Carrier,
		"service", purchased.Service,
		"international", international,
	)

	return &LabelOutcome{Success: true, Label: result}
}

// resolveSender uses an explicitly supplied sender when present; otherwise
// the ship-from selector derives one from product category and origin state.
func (s *LabelService) resolveSender(in *domain.ShippingInput) domain.Address {
	if in.Sender != nil && in.Sender.IsComplete() {
		return *in.Sender
	}
	return domain.SelectShipFrom(in)
}

// validateRecipient checks the recipient against the validation service.
// Failures are recovered locally: the original address stands and a warning
// is recorded.
func (s *LabelService) validateRecipient(ctx context.Context, recipient domain.Address, warnings []string) (string, []string) {
	validateCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	result, err := s.validator.ValidateAddress(validateCtx, recipient)
	if err != nil {
		s.logger.WithError(err).Warn("Address validation failed, using original address")
		return ValidationStatusFailed, append(warnings, "recipient address could not be verified")
	}
	if !result.Valid {
		return ValidationStatusFailed, append(warnings, "recipient address failed verification")
	}
	return ValidationStatusVerified, warnings
}

// buildCustoms assembles and registers the customs declaration. Declaration
// failure is tolerated: the shipment proceeds without customs info and a
// warning is recorded.
func (s *LabelService) buildCustoms(ctx context.Context, in *domain.ShippingInput, warnings []string) (*domain.CustomsDeclaration, string, []string) {
	declaration, err := s.customs.Build(ctx, in.ProductDetails, in.Recipient.Country, in.RestrictionFlag)
	if err != nil {
		s.logger.WithError(err).Warn("Customs declaration failed, proceeding without customs info")
		return nil, "", append(warnings, "customs declaration could not be built")
	}

	if s.metrics != nil {
		s.metrics.RecordCustomsGenerated(declaration.FormType)
	}

	customsCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	customsInfoID, err := s.rates.CreateCustomsInfo(customsCtx, declaration)
	if err != nil {
		s.logger.WithError(err).Warn("Customs info registration failed, proceeding without customs info")
		return declaration, "", append(warnings, "customs info could not be registered with the carrier service")
	}

	return declaration, customsInfoID, warnings
}

// createShipment calls the rate service with retry; the client's circuit
// breaker tracks failures underneath.
func (s *LabelService) createShipment(ctx context.Context, sender domain.Address, in *domain.ShippingInput, weight domain.WeightData, customsInfoID string) (*domain.ShipmentRecord, error) {
	createCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	req := domain.ShipmentRequest{
		From: sender,
		To:   in.Recipient,
		Parcel: domain.Parcel{
			Dimensions: in.Dimensions,
			WeightOz:   weight.ReportedWeightOz,
		},
		CustomsInfoID: customsInfoID,
	}

	return resilience.RetryWithBackoff(createCtx, s.retry, func() (*domain.ShipmentRecord, error) {
		return s.rates.CreateShipment(createCtx, req)
	})
}

func (s *LabelService) failure(err error, diag FailureContext) *LabelOutcome {
	s.logger.WithError(err).Error("Label creation failed",
		"recipientCity", diag.RecipientCity,
		"international", diag.International,
	)

	stack := string(debug.Stack())
	if len(stack) > maxStackExcerpt {
		stack = stack[:maxStackExcerpt]
	}

	return &LabelOutcome{Success: false, Failure: &FailureInfo{
		Message: err.Error(),
		Stack:   stack,
		Context: diag,
	}}
}
