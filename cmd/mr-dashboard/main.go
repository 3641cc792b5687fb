package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/vilaca/mr-dashboard/internal/api"
	"github.com/vilaca/mr-dashboard/internal/api/gitlab"
	"github.com/vilaca/mr-dashboard/internal/config"
	"github.com/vilaca/mr-dashboard/internal/dashboard"
	"github.com/vilaca/mr-dashboard/internal/service"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Wire up dependencies (Dependency Injection / IoC)
	server := buildServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting MR Dashboard on http://localhost%s", addr)
	log.Printf("GitLab API: %s", cfg.GitLabURL)
	if len(cfg.Authors) > 0 {
		log.Printf("Watching %d authors", len(cfg.Authors))
	}
	if len(cfg.Projects) > 0 {
		log.Printf("Watching %d projects", len(cfg.Projects))
	}
	if !cfg.HasGitLabConfig() {
		log.Printf("WARNING: No GitLab token configured. Set GITLAB_TOKEN")
	}

	if err := http.ListenAndServe(addr, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildServer wires up all dependencies and returns the configured HTTP
// handler. This is the composition root where all dependencies are
// created and injected; the one *http.Client built here is shared by
// every concurrent API call for the lifetime of the process.
func buildServer(cfg *config.Config) http.Handler {
	logger := dashboard.NewStdLogger()
	renderer := dashboard.NewHTMLRenderer()
	httpClient := &http.Client{
		Timeout: 30 * time.Second, // Set reasonable timeout for API requests
	}

	gitlabClient := gitlab.NewClient(api.ClientConfig{
		BaseURL: cfg.GitLabURL,
		Token:   cfg.GitLabToken,
	}, httpClient)

	mrService := service.NewMergeRequestService(gitlabClient, logger)

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer:            renderer,
		Logger:              logger,
		MergeRequestService: mrService,
		DefaultTargets:      cfg.Targets(),
		DefaultQuery:        cfg.DefaultQuery(),
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return mux
}
