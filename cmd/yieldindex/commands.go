package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rickgao/yield-index/internal/index"
	"github.com/rickgao/yield-index/internal/model"
	"github.com/rickgao/yield-index/internal/pricing"
	"github.com/rickgao/yield-index/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "build the index and serve price queries over HTTP",
	Action: serve,
}

var buildCommand = &cli.Command{
	Name:   "build",
	Usage:  "build the index once and report statistics",
	Action: buildOnce,
}

var priceCommand = &cli.Command{
	Name:      "price",
	Usage:     "print the proportional price of an item over [BEGIN, END)",
	ArgsUsage: "ITEM BEGIN END",
	Action:    queryPrice,
}

var periodsCommand = &cli.Command{
	Name:      "periods",
	Usage:     "print the item periods intersecting [BEGIN, END)",
	ArgsUsage: "ITEM BEGIN END",
	Action:    queryPeriods,
}

func serve(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen before building so health checks report progress.
	var holder index.Holder
	srv := server.New(e.cfg.Server, &holder, e.logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	table, stats, err := e.buildIndex(ctx)
	if err != nil {
		shutdown(srv, e)
		return fmt.Errorf("build index: %w", err)
	}
	if err := holder.Publish(table); err != nil {
		shutdown(srv, e)
		return err
	}

	e.logger.Info("index published",
		"build_id", table.BuildID,
		"items", stats.Items,
		"records", stats.Records,
		"port", e.cfg.Server.Port,
	)

	select {
	case <-ctx.Done():
		e.logger.Info("received shutdown signal")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("query server: %w", err)
		}
	}

	shutdown(srv, e)
	e.logger.Info("yieldindex stopped")
	return nil
}

func shutdown(srv *server.Server, e *env) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		e.logger.Warn("query server shutdown", "error", err)
	}
}

func buildOnce(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, stats, err := e.buildIndex(ctx)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	return printJSON(struct {
		index.TableStats
		Records  int64  `json:"records"`
		Batches  int64  `json:"batches"`
		Duration string `json:"duration"`
	}{
		TableStats: table.Stats(),
		Records:    stats.Records,
		Batches:    stats.Batches,
		Duration:   stats.Duration.String(),
	})
}

func queryPrice(c *cli.Context) error {
	return runQuery(c, func(t *index.Table, q rangeArgs) (any, error) {
		price, err := t.RangeSum(q.item, q.begin, q.end)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"item_id": q.item,
			"begin":   q.begin,
			"end":     q.end,
			"price":   price,
		}, nil
	})
}

func queryPeriods(c *cli.Context) error {
	return runQuery(c, func(t *index.Table, q rangeArgs) (any, error) {
		periods, err := t.RangePeriods(q.item, q.begin, q.end)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(periods))
		for _, p := range periods {
			out = append(out, map[string]any{"begin": p.Begin, "end": p.End(), "price": p.Price})
		}
		return map[string]any{
			"item_id": q.item,
			"begin":   q.begin,
			"end":     q.end,
			"periods": out,
		}, nil
	})
}

type rangeArgs struct {
	item       model.ItemID
	begin, end pricing.Timestamp
}

func parseRangeArgs(args []string) (rangeArgs, error) {
	var q rangeArgs
	if len(args) != 3 {
		return q, errors.New("want ITEM BEGIN END")
	}

	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return q, fmt.Errorf("item %q: %w", args[0], err)
	}
	q.item = model.ItemID(id)

	if q.begin, err = server.ParseTimestamp(args[1]); err != nil {
		return q, fmt.Errorf("begin: %w", err)
	}
	if q.end, err = server.ParseTimestamp(args[2]); err != nil {
		return q, fmt.Errorf("end: %w", err)
	}
	if q.begin >= q.end {
		return q, fmt.Errorf("%w: begin %d >= end %d", index.ErrInvalidInterval, q.begin, q.end)
	}
	return q, nil
}

// runQuery validates the arguments before building so a typo does not cost a
// full ingest.
func runQuery(c *cli.Context, query func(*index.Table, rangeArgs) (any, error)) error {
	q, err := parseRangeArgs(c.Args().Slice())
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: %v", c.Command.Name, err), 2)
	}

	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	table, _, err := e.buildIndex(c.Context)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	var holder index.Holder
	if err := holder.Publish(table); err != nil {
		return err
	}

	result, err := query(holder.MustCurrent(), q)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// stdout receives command results.
var stdout io.Writer = os.Stdout

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
