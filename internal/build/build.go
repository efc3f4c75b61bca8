package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rickgao/yield-index/internal/config"
	"github.com/rickgao/yield-index/internal/index"
	"github.com/rickgao/yield-index/internal/memstats"
	"github.com/rickgao/yield-index/internal/model"
	"github.com/rickgao/yield-index/internal/source"
)

// Options controls a build.
type Options struct {
	BatchSize        int  // Records per batch handed to the builder
	BufferSize       int  // Batches in flight
	ProgressEvery    int  // Records between progress logs
	TrustStreamOrder bool // Skip the per-item ordering check
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		BatchSize:     config.DefaultBatchSize,
		BufferSize:    config.DefaultBufferSize,
		ProgressEvery: config.DefaultProgressEvery,
	}
}

// OptionsFromConfig converts index configuration to build options.
func OptionsFromConfig(cfg config.IndexConfig) Options {
	return Options{
		BatchSize:        cfg.BatchSize,
		BufferSize:       cfg.BufferSize,
		ProgressEvery:    cfg.ProgressEvery,
		TrustStreamOrder: cfg.TrustStreamOrder,
	}
}

// Stats describes a finished build.
type Stats struct {
	Records  int64
	Items    int
	Batches  int64
	Duration time.Duration
}

var printer = message.NewPrinter(language.English)

// Run builds a table from src. The table is complete when err is nil.
func Run(ctx context.Context, src source.Source, opts Options, logger *slog.Logger) (*index.Table, Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = config.DefaultBatchSize
	}
	if opts.BufferSize < 1 {
		opts.BufferSize = config.DefaultBufferSize
	}
	if opts.ProgressEvery < 1 {
		opts.ProgressEvery = config.DefaultProgressEvery
	}

	start := time.Now()
	memstats.Log(ctx, logger, "memory before index build")

	total, err := src.Count(ctx)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("count records: %w", err)
	}
	logger.Info("building index", "records", printer.Sprintf("%d", total))

	var builderOpts []index.BuilderOption
	if opts.TrustStreamOrder {
		builderOpts = append(builderOpts, index.WithTrustedOrder())
	}
	builder := index.NewBuilder(builderOpts...)

	batches := make(chan []model.Record, opts.BufferSize)
	g, gctx := errgroup.WithContext(ctx)

	// Reader
	g.Go(func() error {
		defer close(batches)

		batch := make([]model.Record, 0, opts.BatchSize)
		err := src.Stream(gctx, func(r model.Record) error {
			batch = append(batch, r)
			if len(batch) < opts.BatchSize {
				return nil
			}
			if err := send(gctx, batches, batch); err != nil {
				return err
			}
			batch = make([]model.Record, 0, opts.BatchSize)
			return nil
		})
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		if len(batch) > 0 {
			return send(gctx, batches, batch)
		}
		return nil
	})

	// Builder
	var stats Stats
	g.Go(func() error {
		progress := newProgress(logger, total, opts.ProgressEvery)
		for batch := range batches {
			for _, r := range batch {
				if err := builder.Append(r); err != nil {
					return fmt.Errorf("record %d: %w", stats.Records+1, err)
				}
				stats.Records++
				progress.tick(stats.Records)
			}
			stats.Batches++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	table := builder.Finish()
	stats.Items = table.Len()
	stats.Duration = time.Since(start)

	memstats.Log(ctx, logger, "memory after index build")
	logger.Info("pricing indexed",
		"items", printer.Sprintf("%d", stats.Items),
		"records", printer.Sprintf("%d", stats.Records),
		"build_id", table.BuildID,
		"duration", stats.Duration,
	)

	return table, stats, nil
}

func send(ctx context.Context, ch chan<- []model.Record, batch []model.Record) error {
	select {
	case ch <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
