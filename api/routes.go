// Package api exposes the cleaning pipeline over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/docpolish-golang/pkg/pipeline"
)

const (
	// DefaultMaxFileSize is the default maximum upload size (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultCacheEntries is the default number of cached results
	DefaultCacheEntries = 32
)

// Config holds server configuration
type Config struct {
	Port         string
	MaxFileSize  int64
	CacheEntries int
	Logger       logrus.FieldLogger
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.CacheEntries <= 0 {
		c.CacheEntries = DefaultCacheEntries
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
}

// SetupRoutes registers the API on r
func SetupRoutes(r *gin.Engine, config *Config) {
	config.defaults()
	h := &handler{
		config:   config,
		pipeline: pipeline.New(pipeline.Config{Logger: config.Logger}),
		cache:    newResultCache(config.CacheEntries),
	}

	r.Use(requestLogger(config.Logger))

	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/clean", h.handleClean)
		apiGroup.POST("/detect", h.handleDetect)
		apiGroup.POST("/preview", h.handlePreview)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "docpolish",
		})
	})
}

// NewRouter returns an engine with recovery and the API routes
func NewRouter(config *Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	SetupRoutes(r, config)
	return r
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("request served")
	}
}
