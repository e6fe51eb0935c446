package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/mcm-analyzer/backend/advisor"
	"github.com/mcm-analyzer/backend/analysis"
	"github.com/mcm-analyzer/backend/config"
	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/middleware"
	"github.com/mcm-analyzer/backend/providers"
	"github.com/mcm-analyzer/backend/stats"
)

const (
	rateLimitRequests = 10
	rateLimitWindow   = time.Hour
)

type server struct {
	cfg          *config.Config
	extractor    *extractor.Extractor
	orchestrator *analysis.Orchestrator
	limiter      *middleware.RateLimiter
	storage      *stats.Storage
	providers    []*providers.Provider
}

func newServer(cfg *config.Config) (*server, error) {
	storage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	built := cfg.BuildProviders(nil)
	callers := make([]analysis.ModelCaller, len(built))
	for i, p := range built {
		callers[i] = p
	}

	return &server{
		cfg:          cfg,
		extractor:    extractor.New(),
		orchestrator: analysis.New(callers, analysis.DefaultCallTimeout),
		limiter:      middleware.NewRateLimiter(rateLimitRequests, rateLimitWindow),
		storage:      storage,
		providers:    built,
	}, nil
}

func (s *server) Shutdown() error {
	return s.storage.Shutdown()
}

// providerByName finds a built provider for the advisor endpoints.
func (s *server) providerByName(name string) *providers.Provider {
	for _, p := range s.providers {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func (s *server) router() *gin.Engine {
	r := gin.Default()

	r.Use(middleware.ErrorHandler())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Visitor and analysis tracking
	r.Use(func(c *gin.Context) {
		start := time.Now()
		ip := c.ClientIP()

		if err := s.storage.TrackVisitor(ip); err != nil {
			log.Printf("Failed to track visitor: %v", err)
		}

		c.Next()

		if c.Request.URL.Path == "/api/analyze" && c.Request.Method == "POST" {
			loadTime := float64(time.Since(start).Milliseconds())
			target := c.GetString("analyzedURL")
			hasError := c.Writer.Status() >= 400
			if err := s.storage.TrackAnalysis(target, loadTime, hasError); err != nil {
				log.Printf("Failed to track analysis: %v", err)
			}
		}
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			log.Printf("Health check request received from: %s\n", c.ClientIP())
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/analyze", s.limiter.RateLimit(), s.handleAnalyze)
		api.POST("/offers", s.limiter.RateLimit(), s.handleOffers)
		api.POST("/recommendations", s.limiter.RateLimit(), s.handleRecommendations)
		api.POST("/recall", s.limiter.RateLimit(), s.handleRecall)

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.storage.GetStatistics(s.cfg.DevMode))
		})
	}

	return r
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// handleAnalyze validates the request, extracts the page once, then
// streams model settlements as server-sent events. Extraction failure
// aborts the whole request before any stream is opened; this is a
// deliberate trade against per-step streaming.
func (s *server) handleAnalyze(c *gin.Context) {
	log.Printf("Analyze request received from: %s\n", c.ClientIP())

	var request analyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	c.Set("analyzedURL", request.URL)

	content, err := s.extractor.Extract(c.Request.Context(), request.URL)
	if err != nil {
		var fetchErr *extractor.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze URL: " + err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	for ev := range s.orchestrator.Run(c.Request.Context(), content) {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("Failed to encode event: %v", err)
			continue
		}
		if err := sse.Encode(c.Writer, sse.Event{Data: string(payload)}); err != nil {
			// Client went away; keep draining so the providers settle.
			continue
		}
		c.Writer.Flush()
	}
}

type advisorRequest struct {
	URL      string                 `json:"url" binding:"required,url"`
	Insights []advisor.ModelInsight `json:"insights"`
}

func (s *server) handleOffers(c *gin.Context) {
	var request advisorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	completer := s.providerByName(providers.NameGPT4o)
	if completer == nil || !completer.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OpenAI API key not configured"})
		return
	}

	content, err := s.extractor.Extract(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	offers, err := advisor.GenerateOffers(c.Request.Context(), completer, content, request.Insights)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (s *server) handleRecommendations(c *gin.Context) {
	var request advisorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	completer := s.providerByName(providers.NameGPT4o)
	if completer == nil || !completer.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OpenAI API key not configured"})
		return
	}

	content, err := s.extractor.Extract(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	recommendations, err := advisor.GenerateRecommendations(c.Request.Context(), completer, content, request.Insights)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

// handleRecall asks the three major models what they already know
// about the analyzed brand.
func (s *server) handleRecall(c *gin.Context) {
	var request analyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	content, err := s.extractor.Extract(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	var completers []advisor.Completer
	for _, name := range []string{providers.NameGPT4o, providers.NameClaude, providers.NameGemini} {
		if p := s.providerByName(name); p != nil && p.Configured() {
			completers = append(completers, p)
		}
	}
	if len(completers) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No provider keys configured for recall simulation"})
		return
	}

	info := content.BusinessInfo
	results := advisor.SimulateRecall(c.Request.Context(), completers, info.SiteName, advisor.ActualInfo{
		Description: info.Description,
		Products:    info.Products,
		Category:    info.Category,
	})
	c.JSON(http.StatusOK, gin.H{"results": results})
}
