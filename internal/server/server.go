// Package server exposes the HTTP API: quote funnel endpoints for the
// customer flow and catalog/settings endpoints for operations staff.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	catalogdomain "github.com/sunquotelabs/sunquote/internal/catalog/domain"
	"github.com/sunquotelabs/sunquote/internal/config"
	quotedomain "github.com/sunquotelabs/sunquote/internal/quote/domain"
	settingsdomain "github.com/sunquotelabs/sunquote/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

type Params struct {
	fx.In

	Cfg         *config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	Registry    *prometheus.Registry
	CatalogSvc  catalogdomain.Service
	SettingsSvc settingsdomain.Service
	QuoteSvc    quotedomain.Service
}

type Server struct {
	cfg         *config.Config
	log         *zap.Logger
	db          *gorm.DB
	registry    *prometheus.Registry
	catalogSvc  catalogdomain.Service
	settingsSvc settingsdomain.Service
	quoteSvc    quotedomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		db:          p.DB,
		registry:    p.Registry,
		catalogSvc:  p.CatalogSvc,
		settingsSvc: p.SettingsSvc,
		quoteSvc:    p.QuoteSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readiness", s.GetReadiness)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	{
		// Customer funnel.
		v1.POST("/quotes", s.CreateQuote)
		v1.GET("/quotes", s.GetQuoteBySession)
		v1.GET("/quotes/:id", s.GetQuote)
		v1.PATCH("/quotes/:id/household", s.UpdateHousehold)
		v1.POST("/quotes/:id/calculate", s.CalculateQuote)
		v1.POST("/quotes/:id/select-package", s.SelectPackage)
		v1.POST("/quotes/:id/status", s.TransitionQuote)
		v1.GET("/packages", s.ListPackageTemplates)

		// Operations.
		v1.POST("/products", s.CreateProduct)
		v1.GET("/products", s.ListProducts)
		v1.GET("/products/:id", s.GetProduct)
		v1.PUT("/products/:id", s.UpdateProduct)
		v1.DELETE("/products/:id", s.ArchiveProduct)
		v1.POST("/offers", s.CreateOffer)
		v1.GET("/offers", s.ListOffers)
		v1.PUT("/offers/:id", s.UpdateOffer)
		v1.POST("/installation-items", s.CreateInstallationItem)
		v1.GET("/installation-items", s.ListInstallationItems)
		v1.POST("/rate-cards", s.CreateRateCard)
		v1.GET("/rate-cards", s.ListRateCards)
		v1.POST("/zone-ratings", s.CreateZoneRating)
		v1.GET("/zone-ratings", s.ListZoneRatings)
		v1.POST("/package-templates", s.CreatePackageTemplate)
		v1.GET("/settings", s.GetSettings)
		v1.PUT("/settings", s.UpdateSettings)
	}

	return r
}

// requestID propagates the caller's X-Request-ID, minting one when absent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Duration("duration", time.Since(start)))
	}
}

// RunHTTP starts the API server under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
