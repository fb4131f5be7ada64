package server

import (
	"github.com/gin-gonic/gin"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
)

// @Summary      Get Settings
// @Description  Get the system pricing settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /settings [get]
func (s *Server) GetSettings(c *gin.Context) {
	resp, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Settings
// @Description  Update system pricing settings; changes only affect future calculations
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settingsdomain.UpdateRequest true "Update Settings Request"
// @Success      200  {object}  DataResponse
// @Router       /settings [put]
func (s *Server) UpdateSettings(c *gin.Context) {
	var req settingsdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.settingsSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
