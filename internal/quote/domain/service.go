package domain

import (
	"context"

	pricingdomain "github.com/sunquotelabs/sunquote/internal/pricing/domain"
)

type Service interface {
	// CreateDraft is idempotent per session: a session that already owns a
	// quote gets that quote back.
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*Quote, error)

	// UpdateHousehold merges profile data into a draft. It never triggers
	// a calculation.
	UpdateHousehold(ctx context.Context, quoteID string, profile pricingdomain.HouseholdProfile) (*Quote, error)

	// CalculatePreview runs the full pipeline and returns the breakdown
	// without persisting anything. Draft quotes only.
	CalculatePreview(ctx context.Context, req CalculateRequest) (*CompleteQuote, error)

	// SelectPackage runs the pipeline once and freezes the result onto the
	// quote. The single state-mutating calculation entry point; a second
	// attempt on a frozen quote fails with ErrAlreadyFrozen.
	SelectPackage(ctx context.Context, req SelectPackageRequest) (*Quote, error)

	// Get returns the stored quote; frozen fields verbatim once selected,
	// a live preview while still in draft when inputs allow one.
	Get(ctx context.Context, quoteID string) (*Quote, *pricingdomain.Result, error)

	// GetBySession returns the session's quote, if any.
	GetBySession(ctx context.Context, sessionID string) (*Quote, error)

	// Transition advances post-selection status. It never re-invokes the
	// engine.
	Transition(ctx context.Context, quoteID string, to Status) (*Quote, error)
}

type CreateDraftRequest struct {
	SessionID    string `json:"session_id"`
	Address      string `json:"address"`
	Postcode     int    `json:"postcode"`
	State        string `json:"state"`
	PropertyType string `json:"property_type"`
}

type CalculateRequest struct {
	QuoteID    string
	TemplateID string
	// Roof carries caller-supplied building insights. When nil the stored
	// roof data is used, falling back to an external fetch by address.
	Roof    *pricingdomain.RoofData
	Profile *pricingdomain.HouseholdProfile
}

type SelectPackageRequest struct {
	QuoteID            string
	TemplateID         string
	CustomizationNotes string
}

// CompleteQuote is the full calculation breakdown returned to customers
// during preview.
type CompleteQuote struct {
	QuoteID   string               `json:"quote_id"`
	Reference string               `json:"reference"`
	Result    pricingdomain.Result `json:"result"`
}
