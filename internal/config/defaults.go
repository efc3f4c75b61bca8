package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID    = "yieldindex"
	DefaultDriver        = DriverPostgres
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 4
	DefaultMinConns      = 1
	DefaultTable         = "price_variations"
	DefaultItemColumn    = "item_id"
	DefaultDateColumn    = "date"
	DefaultPriceColumn   = "price"
	DefaultBatchSize     = 1000
	DefaultBufferSize    = 64
	DefaultProgressEvery = 100000
	DefaultServerPort    = 8080
	DefaultReadTimeout   = 15 * time.Second
	DefaultWriteTimeout  = 15 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 28
)

func (c *Config) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	applyDBDefaults(&c.Database.Postgres)

	// Source defaults
	if c.Source.Table == "" {
		c.Source.Table = DefaultTable
	}
	if c.Source.ItemColumn == "" {
		c.Source.ItemColumn = DefaultItemColumn
	}
	if c.Source.DateColumn == "" {
		c.Source.DateColumn = DefaultDateColumn
	}
	if c.Source.PriceColumn == "" {
		c.Source.PriceColumn = DefaultPriceColumn
	}

	// Index defaults
	if c.Index.BatchSize == 0 {
		c.Index.BatchSize = DefaultBatchSize
	}
	if c.Index.BufferSize == 0 {
		c.Index.BufferSize = DefaultBufferSize
	}
	if c.Index.ProgressEvery == 0 {
		c.Index.ProgressEvery = DefaultProgressEvery
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = DefaultLogMaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = DefaultLogMaxAgeDays
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
