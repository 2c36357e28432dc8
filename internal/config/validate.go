// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validDrivers = map[string]bool{
	"sqlite": true, "postgres": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if c.Server.PruneInterval < 0 {
		errs = append(errs, "server.prune_interval: must not be negative")
	}

	// Database
	if !validDrivers[c.Database.Driver] {
		errs = append(errs, fmt.Sprintf("database.driver: must be one of sqlite, postgres; got %q", c.Database.Driver))
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		errs = append(errs, "database.dsn: required when driver is postgres")
	}

	// Lists
	if c.Lists.CacheTTL < 0 {
		errs = append(errs, "lists.cache_ttl: must not be negative")
	}
	if c.Lists.HistoryLimit < 0 {
		errs = append(errs, fmt.Sprintf("lists.history_limit: must not be negative, got %d", c.Lists.HistoryLimit))
	}

	// Catalog
	if c.Catalog.APIKey == "" {
		errs = append(errs, "catalog.api_key: required")
	}
	if c.Catalog.BaseURL != "" && !isHTTPURL(c.Catalog.BaseURL) {
		errs = append(errs, fmt.Sprintf("catalog.base_url: must be an http(s) URL, got %q", c.Catalog.BaseURL))
	}

	// Auth
	if c.Auth.SessionTTL < 0 {
		errs = append(errs, "auth.session_ttl: must not be negative")
	}
	if o := c.Auth.OIDC; o != nil {
		if o.Issuer == "" {
			errs = append(errs, "auth.oidc.issuer: required when oidc is configured")
		}
		if o.ClientID == "" {
			errs = append(errs, "auth.oidc.client_id: required when oidc is configured")
		}
		if o.RedirectURL != "" && !isHTTPURL(o.RedirectURL) {
			errs = append(errs, fmt.Sprintf("auth.oidc.redirect_url: must be an http(s) URL, got %q", o.RedirectURL))
		}
	}

	// Embed templates need an id placeholder or every stream resolves to the same page.
	for i, tmpl := range c.Embed.MovieTemplates {
		if !strings.Contains(tmpl, "{id}") {
			errs = append(errs, fmt.Sprintf("embed.movie_templates[%d]: missing {id} placeholder", i))
		}
	}
	for i, tmpl := range c.Embed.TVTemplates {
		if !strings.Contains(tmpl, "{id}") {
			errs = append(errs, fmt.Sprintf("embed.tv_templates[%d]: missing {id} placeholder", i))
		}
	}

	return errs
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
