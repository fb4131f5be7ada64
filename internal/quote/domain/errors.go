package domain

import "errors"

var (
	ErrInvalidAddress     = errors.New("invalid_address")
	ErrInvalidPostcode    = errors.New("invalid_postcode")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrTemplateNotFound   = errors.New("template_not_found")
	ErrMissingProfile     = errors.New("household_profile_missing")
	ErrMissingRoofData    = errors.New("roof_data_missing")
	ErrInvalidTransition  = errors.New("invalid_status_transition")
	// ErrAlreadyFrozen rejects any attempt to recalculate a quote whose
	// package has been selected. The frozen figures are the contract shown
	// to the customer.
	ErrAlreadyFrozen = errors.New("quote_already_frozen")
	ErrNotSelected   = errors.New("quote_not_selected")
)
