package build

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/rickgao/yield-index/internal/config"
	"github.com/rickgao/yield-index/internal/index"
	"github.com/rickgao/yield-index/internal/model"
	"github.com/rickgao/yield-index/internal/pricing"
	"github.com/rickgao/yield-index/internal/source"
)

const day = pricing.PeriodLength

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_Slice(t *testing.T) {
	src := source.Slice{
		{ItemID: 1, Timestamp: 4 * day, Price: 10},
		{ItemID: 2, Timestamp: 4 * day, Price: 7},
		{ItemID: 1, Timestamp: 6 * day, Price: 20},
		{ItemID: 2, Timestamp: 5 * day, Price: 8},
		{ItemID: 3, Timestamp: 6 * day, Price: 9},
	}
	opts := Options{BatchSize: 2, BufferSize: 1, ProgressEvery: 1}

	table, stats, err := Run(context.Background(), src, opts, quietLogger())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if stats.Records != 5 {
		t.Errorf("Records = %d, want 5", stats.Records)
	}
	if stats.Items != 3 {
		t.Errorf("Items = %d, want 3", stats.Items)
	}
	if stats.Batches != 3 {
		t.Errorf("Batches = %d, want 3", stats.Batches)
	}

	sum, err := table.RangeSum(1, 5*day+day/2, 6*day+day/2)
	if err != nil {
		t.Fatalf("RangeSum() error: %v", err)
	}
	if sum != 11 {
		t.Errorf("RangeSum() = %d, want 11", sum)
	}
}

func TestRun_Empty(t *testing.T) {
	table, stats, err := Run(context.Background(), source.Slice{}, DefaultOptions(), quietLogger())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if table.Len() != 0 || stats.Records != 0 || stats.Batches != 0 {
		t.Errorf("empty build = %d items, %+v", table.Len(), stats)
	}
}

func TestRun_OutOfOrder(t *testing.T) {
	src := source.Slice{
		{ItemID: 1, Timestamp: 6 * day, Price: 20},
		{ItemID: 1, Timestamp: 4 * day, Price: 10},
	}

	_, _, err := Run(context.Background(), src, Options{BatchSize: 1}, quietLogger())
	if !errors.Is(err, index.ErrOutOfOrder) {
		t.Fatalf("Run() error = %v, want ErrOutOfOrder", err)
	}
}

func TestRun_TrustStreamOrder(t *testing.T) {
	src := source.Slice{
		{ItemID: 1, Timestamp: 6 * day, Price: 20},
		{ItemID: 1, Timestamp: 4 * day, Price: 10},
	}

	_, stats, err := Run(context.Background(), src, Options{TrustStreamOrder: true}, quietLogger())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.Records != 2 {
		t.Errorf("Records = %d, want 2", stats.Records)
	}
}

type failingSource struct {
	countErr  error
	streamErr error
}

func (f failingSource) Count(context.Context) (int64, error) { return 1, f.countErr }

func (f failingSource) Stream(ctx context.Context, fn func(model.Record) error) error {
	if err := fn(model.Record{ItemID: 1, Timestamp: day, Price: 1}); err != nil {
		return err
	}
	return f.streamErr
}

func TestRun_SourceErrors(t *testing.T) {
	boom := errors.New("boom")

	if _, _, err := Run(context.Background(), failingSource{countErr: boom}, DefaultOptions(), quietLogger()); !errors.Is(err, boom) {
		t.Errorf("Run() count error = %v, want %v", err, boom)
	}
	if _, _, err := Run(context.Background(), failingSource{streamErr: boom}, DefaultOptions(), quietLogger()); !errors.Is(err, boom) {
		t.Errorf("Run() stream error = %v, want %v", err, boom)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := make(source.Slice, 100)
	for i := range src {
		src[i] = model.Record{ItemID: 1, Timestamp: pricing.Timestamp(i) * day, Price: 1}
	}

	_, _, err := Run(ctx, src, Options{BatchSize: 1, BufferSize: 1}, quietLogger())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_LogsProgress(t *testing.T) {
	src := make(source.Slice, 2500)
	for i := range src {
		src[i] = model.Record{ItemID: uint32(i % 5), Timestamp: pricing.Timestamp(i/5) * day, Price: 3}
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if _, _, err := Run(context.Background(), src, Options{ProgressEvery: 1000}, logger); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "indexed=1,000") || !strings.Contains(out, "indexed=2,000") {
		t.Errorf("log output missing progress lines:\n%s", out)
	}
	if !strings.Contains(out, "percent=40.0") {
		t.Errorf("log output missing percent:\n%s", out)
	}
	if !strings.Contains(out, "msg=\"pricing indexed\"") {
		t.Errorf("log output missing summary:\n%s", out)
	}
}

func TestRun_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE price_variations (car_id INTEGER, date TEXT, price INTEGER);
		INSERT INTO price_variations VALUES
			(295533, '2024-02-08', 60),
			(295533, '2024-02-09', 70),
			(12, '2024-02-09', 5);
	`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := config.SourceConfig{Table: "price_variations", ItemColumn: "car_id", DateColumn: "date", PriceColumn: "price"}
	src := source.NewSQL(db, cfg, source.SQLiteEpoch)

	table, _, err := Run(context.Background(), src, DefaultOptions(), quietLogger())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// 2024-02-08 12:00 to 2024-02-09 12:00 UTC: half of each day.
	const feb8noon = 1707350400 + 43200
	sum, err := table.RangeSum(295533, feb8noon, feb8noon+day)
	if err != nil {
		t.Fatalf("RangeSum() error: %v", err)
	}
	if sum != 65 {
		t.Errorf("RangeSum() = %d, want 65", sum)
	}
}
