package database

import (
	"fmt"
	"net/url"

	"github.com/rickgao/yield-index/internal/config"
)

// BuildConnString builds a PostgreSQL connection string from config.
// A configured URL is returned unchanged.
func BuildConnString(cfg config.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	// URL-encode credentials to handle special characters
	escapedUser := url.QueryEscape(cfg.User)
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	userInfo := escapedUser
	if cfg.Password != "" {
		userInfo += ":" + escapedPassword
	}

	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}
