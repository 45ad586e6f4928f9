package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/parcelworks/label-service/internal/domain"
)

// ValidateAddresses validates the recipient and, when supplied, the sender.
// The two checks run in parallel; validation failures are recovered by
// returning the original address annotated with a warning, never an error.
func (s *LabelService) ValidateAddresses(ctx context.Context, cmd ValidateAddressCommand) *AddressValidationResult {
	result := &AddressValidationResult{}

	if s.validator == nil {
		result.Recipient = unvalidated(cmd.Address, "address validation service not configured")
		if cmd.Sender != nil {
			sender := unvalidated(*cmd.Sender, "address validation service not configured")
			result.Sender = &sender
		}
		return result
	}

	validateCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(validateCtx)
	g.Go(func() error {
		result.Recipient = s.validateOne(gctx, cmd.Address)
		return nil
	})
	if cmd.Sender != nil {
		g.Go(func() error {
			sender := s.validateOne(gctx, *cmd.Sender)
			result.Sender = &sender
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func (s *LabelService) validateOne(ctx context.Context, address domain.Address) domain.AddressValidation {
	validation, err := s.validator.ValidateAddress(ctx, address)
	if err != nil {
		s.logger.WithError(err).Warn("Address validation failed, returning original address")
		return unvalidated(address, "validation service unavailable, address not verified")
	}
	return *validation
}

func unvalidated(address domain.Address, warning string) domain.AddressValidation {
	return domain.AddressValidation{
		Validated: address,
		Valid:     false,
		Warnings:  []string{warning},
	}
}

// CalculateCustoms builds a customs declaration without creating a shipment
func (s *LabelService) CalculateCustoms(ctx context.Context, cmd CalculateCustomsCommand) (*domain.CustomsDeclaration, error) {
	declaration, err := s.customs.Build(ctx, cmd.Products, cmd.DestinationCountry, cmd.RestrictionFlag)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordCustomsGenerated(declaration.FormType)
	}
	return declaration, nil
}

// ConvertWeight runs the weight engine in isolation
func (s *LabelService) ConvertWeight(cmd ConvertWeightCommand) domain.WeightData {
	return domain.ConvertAndBuffer(cmd.WeightLbs, cmd.Products)
}

// SelectCarrier returns the pre-quote carrier heuristic for a destination
func (s *LabelService) SelectCarrier(cmd SelectCarrierCommand) domain.CarrierEstimate {
	return domain.EstimateCarrier(cmd.DestinationCountry, cmd.ServiceLevel)
}

// ParseInput exposes the normalizer as a standalone operation
func (s *LabelService) ParseInput(raw string) *domain.ShippingInput {
	return s.parser.Parse(raw)
}
