package application

import (
	"time"

	"github.com/parcelworks/label-service/internal/domain"
)

// Address validation status values recorded in label metadata
const (
	ValidationStatusVerified = "verified"
	ValidationStatusFailed   = "verification_failed"
	ValidationStatusSkipped  = "skipped"
)

// LabelResult is the assembled result of a successful orchestration run.
// It is created once and never mutated afterward.
type LabelResult struct {
	ID           string                     `json:"id"`
	Timestamp    time.Time                  `json:"timestamp"`
	ShipmentID   string                     `json:"shipmentId"`
	Sender       domain.Address             `json:"sender"`
	Recipient    domain.Address             `json:"recipient"`
	Package      PackageDTO                 `json:"package"`
	Customs      *domain.CustomsDeclaration `json:"customs,omitempty"`
	TrackingCode string                     `json:"trackingCode"`
	LabelURL     string                     `json:"labelUrl"`
	Metadata     LabelMetadata              `json:"metadata"`
}

// PackageDTO describes the shipped package
type PackageDTO struct {
	Dimensions       domain.Dimensions `json:"dimensions"`
	ReportedWeightOz float64           `json:"reportedWeightOz"`
	FullParcelOz     float64           `json:"fullParcelOz"`
}

// LabelMetadata carries diagnostic information about the purchase
type LabelMetadata struct {
	ServiceProvider  string   `json:"serviceProvider"`
	Service          string   `json:"service"`
	EstimatedCost    float64  `json:"estimatedCost"`
	International    bool     `json:"international"`
	ValidationStatus string   `json:"validationStatus"`
	Warnings         []string `json:"warnings,omitempty"`
}

// FailureContext carries diagnostics for a failed orchestration run
type FailureContext struct {
	RecipientCity    string  `json:"recipientCity,omitempty"`
	ReportedWeightOz float64 `json:"reportedWeightOz,omitempty"`
	International    bool    `json:"international"`
}

// FailureInfo is the structured failure payload returned instead of an error
type FailureInfo struct {
	Message string         `json:"message"`
	Stack   string         `json:"stack,omitempty"`
	Context FailureContext `json:"context"`
}

// LabelOutcome is the envelope every orchestration run returns: either a
// label or a structured failure, never a propagated error.
type LabelOutcome struct {
	Success bool         `json:"success"`
	Label   *LabelResult `json:"label,omitempty"`
	Failure *FailureInfo `json:"failure,omitempty"`
}

// AddressValidationResult is the result of the address validation tool
type AddressValidationResult struct {
	Recipient domain.AddressValidation  `json:"recipient"`
	Sender    *domain.AddressValidation `json:"sender,omitempty"`
}
