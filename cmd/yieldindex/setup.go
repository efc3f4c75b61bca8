package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/rickgao/yield-index/internal/build"
	"github.com/rickgao/yield-index/internal/config"
	"github.com/rickgao/yield-index/internal/database"
	"github.com/rickgao/yield-index/internal/index"
	"github.com/rickgao/yield-index/internal/logging"
	"github.com/rickgao/yield-index/internal/source"
	"github.com/rickgao/yield-index/internal/version"
)

// env is the state shared by every command.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	logOut io.Closer
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.LoadAndValidate(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logOut, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	slog.SetDefault(logger)

	logger.Info("starting yieldindex",
		"command", c.Command.Name,
		"version", version.Version,
		"commit", version.Commit,
		"instance_id", cfg.Instance.ID,
		"config", c.String("config"),
	)

	return &env{cfg: cfg, logger: logger, logOut: logOut}, nil
}

func (e *env) Close() {
	e.logOut.Close()
}

// openSource connects to the configured database. The returned function
// releases the connection.
func (e *env) openSource(ctx context.Context) (source.Source, func(), error) {
	db := e.cfg.Database

	switch db.Driver {
	case config.DriverSQLite:
		e.logger.Info("opening sqlite database", "path", db.SQLite.Path)
		conn, err := database.OpenSQLite(ctx, db.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return source.NewSQL(conn, e.cfg.Source, source.SQLiteEpoch), func() { conn.Close() }, nil

	default:
		e.logger.Info("connecting to database",
			"host", db.Postgres.Host,
			"port", db.Postgres.Port,
			"database", db.Postgres.Name,
		)
		pool, err := database.Connect(ctx, db.Postgres)
		if err != nil {
			return nil, nil, err
		}
		e.logger.Info("database connected")
		return source.NewPostgres(pool, e.cfg.Source), pool.Close, nil
	}
}

// buildIndex reads the whole source into a sealed table.
func (e *env) buildIndex(ctx context.Context) (*index.Table, build.Stats, error) {
	src, release, err := e.openSource(ctx)
	if err != nil {
		return nil, build.Stats{}, err
	}
	defer release()

	return build.Run(ctx, src, build.OptionsFromConfig(e.cfg.Index), e.logger)
}
