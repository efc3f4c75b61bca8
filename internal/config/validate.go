package config

import (
	"errors"
	"fmt"
	"regexp"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	case DriverSQLite:
		if c.Database.SQLite.Path == "" {
			return errors.New("database.sqlite.path is required")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if err := c.Source.validate(); err != nil {
		return err
	}

	if c.Index.BatchSize < 1 {
		return errors.New("index.batch_size must be >= 1")
	}
	if c.Index.BufferSize < 1 {
		return errors.New("index.buffer_size must be >= 1")
	}
	if c.Index.ProgressEvery < 1 {
		return errors.New("index.progress_every must be >= 1")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.URL == "" {
		if db.Host == "" {
			return fmt.Errorf("%s.host is required", prefix)
		}
		if db.Name == "" {
			return fmt.Errorf("%s.name is required", prefix)
		}
		if db.User == "" {
			return fmt.Errorf("%s.user is required", prefix)
		}
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

// Column and table names are interpolated into SQL, so only plain identifiers are allowed.
func (s *SourceConfig) validate() error {
	if s.Query != "" {
		return nil
	}
	fields := []struct {
		name, value string
	}{
		{"source.table", s.Table},
		{"source.item_column", s.ItemColumn},
		{"source.date_column", s.DateColumn},
		{"source.price_column", s.PriceColumn},
	}
	for _, f := range fields {
		if !identifierRe.MatchString(f.value) {
			return fmt.Errorf("%s must be a plain identifier, got %q", f.name, f.value)
		}
	}
	return nil
}
