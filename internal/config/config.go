package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vilaca/mr-dashboard/internal/domain"
)

// Config holds application configuration.
type Config struct {
	Port int

	// GitLab configuration. The URL includes the API prefix.
	GitLabURL   string
	GitLabToken string

	// Watched authors and projects, queried on every fetch.
	Authors  []string
	Projects []string

	// Default query settings applied when the request carries none.
	Query QueryDefaults
}

// QueryDefaults mirrors the optional query section of the config file.
type QueryDefaults struct {
	OrderBy string `yaml:"order_by"`
	Sort    string `yaml:"sort"`
	Scope   string `yaml:"scope"`
	State   string `yaml:"state"`
	Draft   string `yaml:"draft"`
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	Port      int           `yaml:"port"`
	GitLabURL string        `yaml:"gitlab_url"`
	Authors   []string      `yaml:"authors"`
	Projects  []string      `yaml:"projects"`
	Query     QueryDefaults `yaml:"query"`
}

// Load loads configuration from the optional YAML file named by
// MR_DASHBOARD_CONFIG, then applies environment variables on top.
// Environment always wins over the file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      8080,
		GitLabURL: "https://gitlab.com/api/v4",
		Query: QueryDefaults{
			Scope: string(domain.ScopeAll),
		},
	}

	if path := os.Getenv("MR_DASHBOARD_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("GITLAB_URL"); v != "" {
		cfg.GitLabURL = v
	}
	if v := os.Getenv("GITLAB_TOKEN"); v != "" {
		cfg.GitLabToken = v
	}
	if v := os.Getenv("MR_AUTHORS"); v != "" {
		cfg.Authors = splitList(v)
	}
	if v := os.Getenv("MR_PROJECTS"); v != "" {
		cfg.Projects = splitList(v)
	}

	return cfg, nil
}

// loadFile merges the YAML file at path into cfg.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.GitLabURL != "" {
		cfg.GitLabURL = fc.GitLabURL
	}
	if len(fc.Authors) > 0 {
		cfg.Authors = fc.Authors
	}
	if len(fc.Projects) > 0 {
		cfg.Projects = fc.Projects
	}
	if fc.Query.OrderBy != "" {
		cfg.Query.OrderBy = fc.Query.OrderBy
	}
	if fc.Query.Sort != "" {
		cfg.Query.Sort = fc.Query.Sort
	}
	if fc.Query.Scope != "" {
		cfg.Query.Scope = fc.Query.Scope
	}
	if fc.Query.State != "" {
		cfg.Query.State = fc.Query.State
	}
	if fc.Query.Draft != "" {
		cfg.Query.Draft = fc.Query.Draft
	}

	return nil
}

// HasGitLabConfig returns true if a token is configured.
func (c *Config) HasGitLabConfig() bool {
	return c.GitLabToken != ""
}

// Targets returns the configured authors and projects as fetch targets,
// authors first.
func (c *Config) Targets() []domain.Target {
	targets := make([]domain.Target, 0, len(c.Authors)+len(c.Projects))
	for _, author := range c.Authors {
		targets = append(targets, domain.ByAuthor(author))
	}
	for _, project := range c.Projects {
		targets = append(targets, domain.ByProject(project))
	}
	return targets
}

// DefaultQuery returns the configured default query.
func (c *Config) DefaultQuery() domain.Query {
	return domain.Query{
		OrderBy: domain.OrderBy(c.Query.OrderBy),
		Sort:    domain.Sort(c.Query.Sort),
		Scope:   domain.Scope(c.Query.Scope),
		State:   domain.State(c.Query.State),
		Draft:   domain.Draft(c.Query.Draft),
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
