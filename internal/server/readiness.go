package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
)

type ReadinessState string

const (
	ReadinessStateReady    ReadinessState = "ready"
	ReadinessStateNotReady ReadinessState = "not_ready"
	ReadinessStateOptional ReadinessState = "optional"
)

type ReadinessIssue struct {
	ID       string            `json:"id"`
	Status   ReadinessState    `json:"status"`
	Evidence map[string]string `json:"evidence,omitempty"`
}

type ReadinessResponse struct {
	SystemState ReadinessState   `json:"system_state"`
	Issues      []ReadinessIssue `json:"issues"`
}

// GetReadiness reports whether the catalog and settings hold everything a
// calculation needs. A not_ready system can still serve drafts but every
// pricing run would fail.
func (s *Server) GetReadiness(c *gin.Context) {
	ctx := c.Request.Context()

	snap, err := s.catalogSvc.Snapshot(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog snapshot"})
		return
	}

	issues := []ReadinessIssue{}
	ready := true

	check := func(id string, ok bool, evidence map[string]string) {
		status := ReadinessStateReady
		if !ok {
			status = ReadinessStateNotReady
			ready = false
		}
		issues = append(issues, ReadinessIssue{ID: id, Status: status, Evidence: evidence})
	}

	offered := func(products []catalogdomain.Product) int {
		n := 0
		for _, p := range products {
			if len(snap.OffersFor(p.ID)) > 0 {
				n++
			}
		}
		return n
	}

	panels := offered(snap.ProductsOf(catalogdomain.ProductTypePanel))
	check("panel_with_offer_exists", panels > 0, nil)

	inverters := offered(snap.ProductsOf(catalogdomain.ProductTypeInverter))
	check("inverter_with_offer_exists", inverters > 0, nil)

	check("zone_ratings_configured", len(snap.ZoneRatings) > 0, nil)
	check("package_template_exists", len(snap.Templates) > 0, nil)

	hasInstall := len(snap.InstallationItems) > 0 || len(snap.RateCards) > 0
	check("installation_pricing_configured", hasInstall, nil)

	if _, err := s.settingsSvc.Get(ctx); err != nil {
		if errors.Is(err, settingsdomain.ErrNotSeeded) {
			check("settings_seeded", false, nil)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
			return
		}
	} else {
		check("settings_seeded", true, nil)
	}

	// Batteries are only needed by templates that size one.
	batteries := offered(snap.ProductsOf(catalogdomain.ProductTypeBattery))
	batteryNeeded := false
	for _, t := range snap.Templates {
		if t.BatterySizingStrategy != catalogdomain.BatterySizingNone {
			batteryNeeded = true
			break
		}
	}
	if batteryNeeded {
		check("battery_with_offer_exists", batteries > 0, nil)
	} else {
		issues = append(issues, ReadinessIssue{
			ID:     "battery_with_offer_exists",
			Status: ReadinessStateOptional,
		})
	}

	state := ReadinessStateReady
	if !ready {
		state = ReadinessStateNotReady
	}
	c.JSON(http.StatusOK, ReadinessResponse{SystemState: state, Issues: issues})
}
