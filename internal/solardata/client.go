// Package solardata fetches roof production estimates from the external
// solar irradiance API, with a redis cache in front. The fetch is the only
// network call in the quote pipeline; it is bounded, retried, and a final
// failure aborts the calculation rather than substituting zero production.
package solardata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sunquotelabs/sunquote/internal/config"
	pricingdomain "github.com/sunquotelabs/sunquote/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Source resolves an address into roof production data.
type Source interface {
	RoofData(ctx context.Context, address string) (pricingdomain.RoofData, error)
}

type Params struct {
	fx.In

	Cfg   *config.Config
	Log   *zap.Logger
	Redis *redis.Client `optional:"true"`
}

type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	redis    *redis.Client
	log      *zap.Logger
	retries  int
	cacheTTL time.Duration
}

func NewClient(p Params) Source {
	return &Client{
		baseURL: strings.TrimRight(p.Cfg.SolarData.BaseURL, "/"),
		apiKey:  p.Cfg.SolarData.APIKey,
		http: &http.Client{
			Timeout: time.Duration(p.Cfg.SolarData.TimeoutSec) * time.Second,
		},
		redis:    p.Redis,
		log:      p.Log.Named("solardata.client"),
		retries:  p.Cfg.SolarData.MaxRetries,
		cacheTTL: time.Duration(p.Cfg.SolarData.CacheTTLHours) * time.Hour,
	}
}

// buildingInsights is the subset of the upstream response the engine needs.
type buildingInsights struct {
	SolarPotential struct {
		MaxArrayPanelsCount int     `json:"maxArrayPanelsCount"`
		PanelCapacityWatts  float64 `json:"panelCapacityWatts"`
		SolarPanels         []struct {
			YearlyEnergyDcKwh float64 `json:"yearlyEnergyDcKwh"`
		} `json:"solarPanels"`
		RoofSegmentStats []struct {
			PitchDegrees float64 `json:"pitchDegrees"`
		} `json:"roofSegmentStats"`
	} `json:"solarPotential"`
}

func (c *Client) RoofData(ctx context.Context, address string) (pricingdomain.RoofData, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return pricingdomain.RoofData{}, pricingdomain.NewInvalidInput("address", "required")
	}

	if cached, ok := c.fromCache(ctx, address); ok {
		return cached, nil
	}

	var lastErr error
	backoff := time.Second
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return pricingdomain.RoofData{}, fmt.Errorf("%w: %v", pricingdomain.ErrExternalDataUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		data, err := c.fetch(ctx, address)
		if err == nil {
			c.toCache(ctx, address, data)
			return data, nil
		}
		lastErr = err
		c.log.Warn("roof data fetch failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return pricingdomain.RoofData{}, fmt.Errorf("%w: %v", pricingdomain.ErrExternalDataUnavailable, lastErr)
}

func (c *Client) fetch(ctx context.Context, address string) (pricingdomain.RoofData, error) {
	endpoint := fmt.Sprintf("%s/buildingInsights:findClosest?address=%s&key=%s",
		c.baseURL, url.QueryEscape(address), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pricingdomain.RoofData{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pricingdomain.RoofData{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pricingdomain.RoofData{}, fmt.Errorf("solar api status %d", resp.StatusCode)
	}

	var insights buildingInsights
	if err := json.NewDecoder(resp.Body).Decode(&insights); err != nil {
		return pricingdomain.RoofData{}, err
	}

	return fromInsights(insights)
}

// fromInsights converts an upstream payload into engine roof data. The
// per-panel yield is the mean of the panel-level estimates, which already
// reflect this roof's orientation and shading.
func fromInsights(b buildingInsights) (pricingdomain.RoofData, error) {
	sp := b.SolarPotential
	if sp.MaxArrayPanelsCount <= 0 {
		return pricingdomain.RoofData{}, errors.New("no usable roof area in response")
	}

	var perPanel float64
	if n := len(sp.SolarPanels); n > 0 {
		var sum float64
		for _, p := range sp.SolarPanels {
			sum += p.YearlyEnergyDcKwh
		}
		perPanel = sum / float64(n)
	}

	var tilt float64
	if len(sp.RoofSegmentStats) > 0 {
		tilt = sp.RoofSegmentStats[0].PitchDegrees
	}

	return pricingdomain.RoofData{
		MaxPanelCount:     sp.MaxArrayPanelsCount,
		PerPanelYearlyKWH: perPanel,
		TiltDegrees:       tilt,
	}, nil
}

func (c *Client) fromCache(ctx context.Context, address string) (pricingdomain.RoofData, bool) {
	if c.redis == nil {
		return pricingdomain.RoofData{}, false
	}
	raw, err := c.redis.Get(ctx, cacheKey(address)).Bytes()
	if err != nil {
		return pricingdomain.RoofData{}, false
	}
	var data pricingdomain.RoofData
	if err := json.Unmarshal(raw, &data); err != nil {
		return pricingdomain.RoofData{}, false
	}
	return data, true
}

func (c *Client) toCache(ctx context.Context, address string, data pricingdomain.RoofData) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(address), raw, c.cacheTTL).Err(); err != nil {
		c.log.Warn("roof data cache write failed", zap.Error(err))
	}
}

func cacheKey(address string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(address)))
	return "solardata:roof:" + hex.EncodeToString(sum[:8])
}
