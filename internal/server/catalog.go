package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
)

// @Summary      Create Product
// @Description  Add a panel, inverter, battery or addon to the catalog
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreateProductRequest true "Create Product Request"
// @Success      200  {object}  DataResponse
// @Router       /products [post]
func (s *Server) CreateProduct(c *gin.Context) {
	var req catalogdomain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.catalogSvc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Products
// @Tags         catalog
// @Produce      json
// @Param        type    query  string  false  "Product Type"
// @Param        tier    query  string  false  "Tier"
// @Param        active  query  bool    false  "Active"
// @Success      200  {object}  ListResponse
// @Router       /products [get]
func (s *Server) ListProducts(c *gin.Context) {
	var filter catalogdomain.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.catalogSvc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp)
}

// @Summary      Get Product
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  DataResponse
// @Router       /products/{id} [get]
func (s *Server) GetProduct(c *gin.Context) {
	resp, err := s.catalogSvc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Param        request body catalogdomain.UpdateProductRequest true "Update Product Request"
// @Success      200  {object}  DataResponse
// @Router       /products/{id} [put]
func (s *Server) UpdateProduct(c *gin.Context) {
	var req catalogdomain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")
	resp, err := s.catalogSvc.UpdateProduct(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Archive Product
// @Description  Deactivate a product so new snapshots exclude it; frozen quotes keep it
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  DataResponse
// @Router       /products/{id} [delete]
func (s *Server) ArchiveProduct(c *gin.Context) {
	resp, err := s.catalogSvc.ArchiveProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Create Supplier Offer
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreateOfferRequest true "Create Offer Request"
// @Success      200  {object}  DataResponse
// @Router       /offers [post]
func (s *Server) CreateOffer(c *gin.Context) {
	var req catalogdomain.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.catalogSvc.CreateOffer(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Supplier Offers
// @Tags         catalog
// @Produce      json
// @Param        active  query  bool  false  "Active Only"
// @Success      200  {object}  ListResponse
// @Router       /offers [get]
func (s *Server) ListOffers(c *gin.Context) {
	activeOnly, err := queryBool(c, "active")
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}
	resp, err := s.catalogSvc.ListOffers(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp)
}

// @Summary      Update Supplier Offer
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Offer ID"
// @Param        request body catalogdomain.UpdateOfferRequest true "Update Offer Request"
// @Success      200  {object}  DataResponse
// @Router       /offers/{id} [put]
func (s *Server) UpdateOffer(c *gin.Context) {
	var req catalogdomain.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")
	resp, err := s.catalogSvc.UpdateOffer(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Create Installation Cost Item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreateInstallationItemRequest true "Create Installation Item Request"
// @Success      200  {object}  DataResponse
// @Router       /installation-items [post]
func (s *Server) CreateInstallationItem(c *gin.Context) {
	var req catalogdomain.CreateInstallationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.catalogSvc.CreateInstallationItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Installation Cost Items
// @Tags         catalog
// @Produce      json
// @Param        active  query  bool  false  "Active Only"
// @Success      200  {object}  ListResponse
// @Router       /installation-items [get]
func (s *Server) ListInstallationItems(c *gin.Context) {
	activeOnly, err := queryBool(c, "active")
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}
	resp, err := s.catalogSvc.ListInstallationItems(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp)
}

// @Summary      Create Subcontractor Rate Card
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreateRateCardRequest true "Create Rate Card Request"
// @Success      200  {object}  DataResponse
// @Router       /rate-cards [post]
func (s *Server) CreateRateCard(c *gin.Context) {
	var req catalogdomain.CreateRateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.catalogSvc.CreateRateCard(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Subcontractor Rate Cards
// @Tags         catalog
// @Produce      json
// @Param        active  query  bool  false  "Active Only"
// @Success      200  {object}  ListResponse
// @Router       /rate-cards [get]
func (s *Server) ListRateCards(c *gin.Context) {
	activeOnly, err := queryBool(c, "active")
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}
	resp, err := s.catalogSvc.ListRateCards(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp)
}

// @Summary      Create Zone Rating
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreateZoneRatingRequest true "Create Zone Rating Request"
// @Success      200  {object}  DataResponse
// @Router       /zone-ratings [post]
func (s *Server) CreateZoneRating(c *gin.Context) {
	var req catalogdomain.CreateZoneRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.catalogSvc.CreateZoneRating(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Zone Ratings
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  ListResponse
// @Router       /zone-ratings [get]
func (s *Server) ListZoneRatings(c *gin.Context) {
	resp, err := s.catalogSvc.ListZoneRatings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp)
}

// @Summary      Create Package Template
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogdomain.CreatePackageTemplateRequest true "Create Package Template Request"
// @Success      200  {object}  DataResponse
// @Router       /package-templates [post]
func (s *Server) CreatePackageTemplate(c *gin.Context) {
	var req catalogdomain.CreatePackageTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.catalogSvc.CreatePackageTemplate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Packages
// @Description  List the active package templates shown to customers
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  ListResponse
// @Router       /packages [get]
func (s *Server) ListPackageTemplates(c *gin.Context) {
	resp, err := s.catalogSvc.ListPackageTemplates(c.Request.Context(), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp)
}

// queryBool reads an optional boolean query parameter, false when absent.
func queryBool(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
