package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/sunquotelabs/sunquote/internal/pricing/domain"
	quotedomain "github.com/sunquotelabs/sunquote/internal/quote/domain"
)

type createQuoteRequest struct {
	SessionID    string `json:"session_id"`
	Address      string `json:"address"`
	Postcode     int    `json:"postcode"`
	State        string `json:"state"`
	PropertyType string `json:"property_type"`
}

type calculateQuoteRequest struct {
	TemplateID string                          `json:"template_id"`
	Roof       *pricingdomain.RoofData         `json:"roof,omitempty"`
	Profile    *pricingdomain.HouseholdProfile `json:"profile,omitempty"`
}

type selectPackageRequest struct {
	TemplateID         string `json:"template_id"`
	CustomizationNotes string `json:"customization_notes"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

// quoteResponse pairs the stored quote with a live preview for drafts.
type quoteResponse struct {
	Quote   *quotedomain.Quote    `json:"quote"`
	Preview *pricingdomain.Result `json:"preview,omitempty"`
}

// @Summary      Create Quote
// @Description  Create a draft quote for a session, or return the existing one
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body createQuoteRequest true "Create Quote Request"
// @Success      200  {object}  DataResponse
// @Router       /quotes [post]
func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.CreateDraft(c.Request.Context(), quotedomain.CreateDraftRequest{
		SessionID:    strings.TrimSpace(req.SessionID),
		Address:      strings.TrimSpace(req.Address),
		Postcode:     req.Postcode,
		State:        strings.TrimSpace(req.State),
		PropertyType: strings.TrimSpace(req.PropertyType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Get Quote
// @Description  Get a quote by ID; drafts include a live preview when inputs allow one
// @Tags         quotes
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Success      200  {object}  DataResponse
// @Router       /quotes/{id} [get]
func (s *Server) GetQuote(c *gin.Context) {
	q, preview, err := s.quoteSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, quoteResponse{Quote: q, Preview: preview})
}

// @Summary      Get Session Quote
// @Description  Get the quote owned by a session
// @Tags         quotes
// @Produce      json
// @Param        session_id  query  string  true  "Session ID"
// @Success      200  {object}  DataResponse
// @Router       /quotes [get]
func (s *Server) GetQuoteBySession(c *gin.Context) {
	q, err := s.quoteSvc.GetBySession(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, q)
}

// @Summary      Update Household Profile
// @Description  Store household consumption inputs on a draft quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Param        request body pricingdomain.HouseholdProfile true "Household Profile"
// @Success      200  {object}  DataResponse
// @Router       /quotes/{id}/household [patch]
func (s *Server) UpdateHousehold(c *gin.Context) {
	var profile pricingdomain.HouseholdProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.UpdateHousehold(c.Request.Context(), c.Param("id"), profile)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Calculate Quote
// @Description  Run the pricing pipeline for a template without persisting the result
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Param        request body calculateQuoteRequest true "Calculate Request"
// @Success      200  {object}  DataResponse
// @Router       /quotes/{id}/calculate [post]
func (s *Server) CalculateQuote(c *gin.Context) {
	var req calculateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.CalculatePreview(c.Request.Context(), quotedomain.CalculateRequest{
		QuoteID:    c.Param("id"),
		TemplateID: strings.TrimSpace(req.TemplateID),
		Roof:       req.Roof,
		Profile:    req.Profile,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Select Package
// @Description  Freeze the quote against a package template; fails once already selected
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Param        request body selectPackageRequest true "Select Package Request"
// @Success      200  {object}  DataResponse
// @Router       /quotes/{id}/select-package [post]
func (s *Server) SelectPackage(c *gin.Context) {
	var req selectPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.SelectPackage(c.Request.Context(), quotedomain.SelectPackageRequest{
		QuoteID:            c.Param("id"),
		TemplateID:         strings.TrimSpace(req.TemplateID),
		CustomizationNotes: strings.TrimSpace(req.CustomizationNotes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Transition Quote
// @Description  Advance a selected quote through the delivery statuses
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Quote ID"
// @Param        request body transitionRequest true "Transition Request"
// @Success      200  {object}  DataResponse
// @Router       /quotes/{id}/status [post]
func (s *Server) TransitionQuote(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Transition(c.Request.Context(), c.Param("id"),
		quotedomain.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
