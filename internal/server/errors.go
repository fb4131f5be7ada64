package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	pricingdomain "github.com/sunquotelabs/sunquote/internal/pricing/domain"
	quotedomain "github.com/sunquotelabs/sunquote/internal/quote/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

func invalidRequestError() error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body could not be parsed",
	}
}

func newValidationError(field, code, message string) error {
	return &apiError{
		Status:  http.StatusUnprocessableEntity,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// AbortWithError maps domain errors onto HTTP statuses. Anything unmapped
// is a 500 with an opaque message.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	var invalidInput *pricingdomain.InvalidInputError
	if errors.As(err, &invalidInput) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{
			"code":    "invalid_input",
			"field":   invalidInput.Field,
			"message": invalidInput.Error(),
		}})
		return
	}

	var noProduct *pricingdomain.NoSuitableProductError
	if errors.As(err, &noProduct) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{
			"code":    "no_suitable_product",
			"message": noProduct.Error(),
			"details": gin.H{
				"product_type": noProduct.ProductType,
				"requested":    noProduct.Requested,
				"unit":         noProduct.Unit,
				"nearest":      noProduct.Nearest,
			},
		}})
		return
	}

	var unknownZone *pricingdomain.UnknownZoneError
	if errors.As(err, &unknownZone) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{
			"code":    "unknown_rebate_zone",
			"message": unknownZone.Error(),
			"details": gin.H{"postcode": unknownZone.Postcode},
		}})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal error"

	switch {
	case errors.Is(err, quotedomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, quotedomain.ErrTemplateNotFound):
		status, code, message = http.StatusNotFound, "template_not_found", "package template not found"
	case errors.Is(err, quotedomain.ErrAlreadyFrozen):
		status, code, message = http.StatusConflict, "quote_already_frozen", "a package has already been selected for this quote"
	case errors.Is(err, quotedomain.ErrInvalidTransition):
		status, code, message = http.StatusConflict, "invalid_status_transition", "the requested status transition is not allowed"
	case errors.Is(err, quotedomain.ErrNotSelected):
		status, code, message = http.StatusConflict, "quote_not_selected", "no package has been selected for this quote"
	case errors.Is(err, quotedomain.ErrMissingProfile):
		status, code, message = http.StatusUnprocessableEntity, "household_profile_missing", "a household profile is required before calculating"
	case errors.Is(err, quotedomain.ErrMissingRoofData):
		status, code, message = http.StatusUnprocessableEntity, "roof_data_missing", "roof data is required before calculating"
	case errors.Is(err, quotedomain.ErrInvalidSession),
		errors.Is(err, quotedomain.ErrInvalidAddress),
		errors.Is(err, quotedomain.ErrInvalidPostcode),
		errors.Is(err, quotedomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidID):
		status, code, message = http.StatusBadRequest, err.Error(), "invalid request"
	case errors.Is(err, catalogdomain.ErrInvalidType),
		errors.Is(err, catalogdomain.ErrInvalidTier),
		errors.Is(err, catalogdomain.ErrInvalidManufacturer),
		errors.Is(err, catalogdomain.ErrInvalidCapacity),
		errors.Is(err, catalogdomain.ErrInvalidRate),
		errors.Is(err, catalogdomain.ErrInvalidPostcodeRange),
		errors.Is(err, catalogdomain.ErrInvalidStrategy),
		errors.Is(err, settingsdomain.ErrInvalidValue):
		status, code, message = http.StatusUnprocessableEntity, err.Error(), "validation failed"
	case errors.Is(err, settingsdomain.ErrNotSeeded):
		status, code, message = http.StatusServiceUnavailable, "settings_not_seeded", "system settings have not been seeded"
	case errors.Is(err, pricingdomain.ErrExternalDataUnavailable):
		status, code, message = http.StatusBadGateway, "external_data_unavailable", "roof production data could not be fetched"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    code,
		"message": message,
	}})
}
