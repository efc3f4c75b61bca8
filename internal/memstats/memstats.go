// Package memstats reports process memory around the index build.
package memstats

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is a point-in-time memory reading.
type Snapshot struct {
	HeapAlloc uint64 // Bytes allocated on the Go heap
	Sys       uint64 // Bytes obtained from the OS by the Go runtime
	Resident  uint64 // Process resident set size, 0 if unavailable
}

var processRSS = func(ctx context.Context) (uint64, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}

// Sample reads Go runtime statistics and the process RSS. The runtime
// figures are always filled in; the error reports only a failed RSS read.
func Sample(ctx context.Context) (Snapshot, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s := Snapshot{
		HeapAlloc: ms.HeapAlloc,
		Sys:       ms.Sys,
	}

	rss, err := processRSS(ctx)
	if err != nil {
		return s, fmt.Errorf("read process rss: %w", err)
	}
	s.Resident = rss
	return s, nil
}

// String formats the snapshot for humans.
func (s Snapshot) String() string {
	return fmt.Sprintf("%s allocated / %s resident", humanize.IBytes(s.HeapAlloc), s.residentString())
}

// Log samples memory and logs it under msg.
func Log(ctx context.Context, logger *slog.Logger, msg string) Snapshot {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := Sample(ctx)
	if err != nil {
		logger.Debug("process memory unavailable", "error", err)
	}

	logger.Info(msg,
		"allocated", humanize.IBytes(s.HeapAlloc),
		"sys", humanize.IBytes(s.Sys),
		"resident", s.residentString(),
	)
	return s
}

func (s Snapshot) residentString() string {
	if s.Resident == 0 {
		return "n/a"
	}
	return humanize.IBytes(s.Resident)
}
