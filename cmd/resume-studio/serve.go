package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/careerpilot/resume-studio/internal/apiclient"
	"github.com/careerpilot/resume-studio/internal/config"
	"github.com/careerpilot/resume-studio/internal/db"
	"github.com/careerpilot/resume-studio/internal/llm"
	"github.com/careerpilot/resume-studio/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes resume editing sessions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	api, err := apiclient.New(apiclient.Options{
		BaseURL:   cfg.ResumeAPIURL,
		AuthToken: cfg.ResumeAPIToken,
	})
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gemini, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = gemini.Close() }()

	deps := server.Deps{
		API:       api,
		Suggester: llm.NewSuggester(gemini),
		Tokens:    server.NewJWTService(cfg.JWTSecret),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		deps.DB = database
	} else {
		log.Println("DATABASE_URL not set; draft snapshots disabled")
	}

	srv, err := server.New(server.Config{Port: cfg.Port}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
