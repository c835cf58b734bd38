package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"paper-search/config"
	"paper-search/metrics"
	"paper-search/middleware"
	"paper-search/query"
	"paper-search/services"
	"paper-search/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func timestamp() string {
	return time.Now().Format(time.RFC3339Nano)
}

func newRouter(cfg *config.Config, catalog *services.Catalog, m *metrics.Metrics, gatherer prometheus.Gatherer, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.CORS(cfg.AllowedOrigins()),
		middleware.Logger(log),
		middleware.Metrics(m),
	)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})

	setupHealthRoutes(router, catalog, log)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	setupPaperRoutes(api, catalog, log)
	setupListingRoutes(api, catalog, log)
	setupStatsRoutes(api, catalog, log)

	return router
}

// respondStoreError maps a catalog error to a JSON 500.
func respondStoreError(c *gin.Context, log *zap.Logger, what string, err error) {
	if errors.Is(err, storage.ErrUnavailable) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": storage.ErrUnavailable.Error()})
		return
	}
	log.Error("Failed to fetch "+what, zap.Error(err), zap.String("request_id", middleware.GetRequestID(c)))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to fetch %s: %v", what, err)})
}

func setupHealthRoutes(router *gin.Engine, catalog *services.Catalog, log *zap.Logger) {
	router.GET("/health", func(c *gin.Context) {
		if !catalog.Available() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":    "error",
				"database":  "disconnected",
				"timestamp": timestamp(),
			})
			return
		}

		total, err := catalog.TotalPapers(c.Request.Context())
		if err != nil {
			log.Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":    "error",
				"message":   err.Error(),
				"timestamp": timestamp(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"database":     "connected",
			"total_papers": total,
			"timestamp":    timestamp(),
		})
	})
}

func setupPaperRoutes(rg *gin.RouterGroup, catalog *services.Catalog, log *zap.Logger) {
	rg.GET("/papers", func(c *gin.Context) {
		page, err := query.ParsePage(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := query.Filter{
			Conferences:    c.QueryArray("conference"),
			Years:          c.QueryArray("year"),
			Subjects:       c.QueryArray("subject"),
			SearchTitle:    c.Query("search_title"),
			SearchAbstract: c.Query("search_abstract"),
		}

		res, err := catalog.SearchPapers(c.Request.Context(), filter, page)
		if err != nil {
			respondStoreError(c, log, "papers", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"papers":      res.Papers,
			"total":       res.Total,
			"page":        res.Page,
			"limit":       res.Limit,
			"total_pages": res.TotalPages,
			"timestamp":   timestamp(),
		})
	})
}

func setupListingRoutes(rg *gin.RouterGroup, catalog *services.Catalog, log *zap.Logger) {
	rg.GET("/conferences", func(c *gin.Context) {
		confs, err := catalog.Conferences(c.Request.Context())
		if err != nil {
			respondStoreError(c, log, "conferences", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conferences": confs, "count": len(confs), "timestamp": timestamp()})
	})

	rg.GET("/years", func(c *gin.Context) {
		years, err := catalog.Years(c.Request.Context())
		if err != nil {
			respondStoreError(c, log, "years", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"years": years, "count": len(years), "timestamp": timestamp()})
	})

	rg.GET("/subjects", func(c *gin.Context) {
		conferences := query.SplitList(c.Query("conferences"))
		years := query.SplitList(c.Query("years"))

		subjects, err := catalog.SubjectTypes(c.Request.Context(), conferences, years)
		if err != nil {
			respondStoreError(c, log, "subjects", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subjects": subjects, "count": len(subjects), "timestamp": timestamp()})
	})
}

func setupStatsRoutes(rg *gin.RouterGroup, catalog *services.Catalog, log *zap.Logger) {
	rg.GET("/stats", func(c *gin.Context) {
		stats, err := catalog.Stats(c.Request.Context())
		if err != nil {
			respondStoreError(c, log, "stats", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"total_papers":          stats.TotalPapers,
			"conference_stats":      stats.ConferenceStats,
			"year_stats":            stats.YearStats,
			"conference_year_stats": stats.ConferenceYearStats,
			"timestamp":             timestamp(),
		})
	})
}
