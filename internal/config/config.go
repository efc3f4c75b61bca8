package config

import "time"

// Config is the root configuration for a yield index instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Index    IndexConfig    `yaml:"index"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// InstanceConfig identifies this instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig selects where price variations are read from.
type DatabaseConfig struct {
	Driver   string       `yaml:"driver"` // "postgres" or "sqlite"
	Postgres DBConfig     `yaml:"postgres"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	URL      string `yaml:"url"` // Full connection URL, overrides the fields below
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SQLiteConfig holds a SQLite database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SourceConfig describes the price variations table.
// Query and CountQuery, when set, replace the generated statements.
type SourceConfig struct {
	Table       string `yaml:"table"`
	ItemColumn  string `yaml:"item_column"`
	DateColumn  string `yaml:"date_column"`
	PriceColumn string `yaml:"price_column"`
	Query       string `yaml:"query"`
	CountQuery  string `yaml:"count_query"`
}

// IndexConfig holds index build settings.
type IndexConfig struct {
	BatchSize        int  `yaml:"batch_size"`
	BufferSize       int  `yaml:"buffer_size"`    // Batches in flight between reader and builder
	ProgressEvery    int  `yaml:"progress_every"` // Records between progress logs
	TrustStreamOrder bool `yaml:"trust_stream_order"`
}

// ServerConfig holds HTTP query server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`   // Optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}
