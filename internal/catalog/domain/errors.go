package domain

import "errors"

var (
	ErrInvalidType         = errors.New("invalid_product_type")
	ErrInvalidTier         = errors.New("invalid_tier")
	ErrInvalidManufacturer = errors.New("invalid_manufacturer")
	ErrInvalidCapacity     = errors.New("invalid_capacity")
	ErrInvalidRate         = errors.New("invalid_rate")
	ErrInvalidPostcodeRange = errors.New("invalid_postcode_range")
	ErrInvalidStrategy     = errors.New("invalid_sizing_strategy")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
