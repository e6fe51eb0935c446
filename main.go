package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mcm-analyzer/backend/config"
	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/heuristics"
	"github.com/mcm-analyzer/backend/models"
	"github.com/mcm-analyzer/backend/providers"
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	app := &cli.App{
		Name:  "mcm-analyzer",
		Usage: "Model Context Marketing analyzer backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "providers-config",
				Usage: "optional yaml file overriding provider models/endpoints",
				Value: "providers.yaml",
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the analysis API server",
				Action: serveAction,
			},
			{
				Name:  "analyze",
				Usage: "run an offline heuristic analysis of one URL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "page to analyze", Required: true},
				},
				Action: analyzeAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveAction(c *cli.Context) error {
	loadEnv()
	setupGinMode()

	cfg, err := config.Load(c.String("providers-config"))
	if err != nil {
		return err
	}

	// A missing key only disables that one provider; say so up front.
	validation := cfg.Validate()
	for _, warning := range validation.Warnings {
		log.Println(warning)
	}
	if available := cfg.AvailableModels(); len(available) > 0 {
		log.Printf("Configured models: %v", available)
	} else {
		log.Println("No provider keys configured; every model event will be an error")
	}

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	return srv.router().Run(":" + cfg.Port)
}

// analyzeAction fetches one page and prints the heuristic report. No
// provider credentials are needed; every score is a fallback score.
func analyzeAction(c *cli.Context) error {
	pageURL := c.String("url")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	content, err := extractor.New().Extract(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	scores := make([]models.ModelScore, 0, 9)
	for _, name := range providers.Names() {
		scores = append(scores, heuristics.Score(name, content))
	}

	report := map[string]any{
		"url":          content.URL,
		"businessInfo": content.BusinessInfo,
		"wordCount":    content.WordCount,
		"language":     content.Language,
		"scores":       scores,
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
