package memstats

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSample(t *testing.T) {
	s, err := Sample(context.Background())
	if err != nil {
		t.Skipf("process memory not available here: %v", err)
	}
	if s.HeapAlloc == 0 {
		t.Error("HeapAlloc = 0, want > 0")
	}
	if s.Resident == 0 {
		t.Error("Resident = 0, want > 0")
	}
}

func TestSample_RSSFailure(t *testing.T) {
	orig := processRSS
	defer func() { processRSS = orig }()
	processRSS = func(context.Context) (uint64, error) {
		return 0, errors.New("no procfs")
	}

	s, err := Sample(context.Background())
	if err == nil {
		t.Fatal("Sample() expected error")
	}
	if s.HeapAlloc == 0 {
		t.Error("HeapAlloc = 0, want runtime figures despite rss error")
	}
	if !strings.Contains(s.String(), "n/a resident") {
		t.Errorf("String() = %q, want n/a resident", s.String())
	}
}

func TestSnapshot_String(t *testing.T) {
	s := Snapshot{HeapAlloc: 2048, Resident: 3 * 1024 * 1024}

	want := "2.0 KiB allocated / 3.0 MiB resident"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLog(t *testing.T) {
	orig := processRSS
	defer func() { processRSS = orig }()
	processRSS = func(context.Context) (uint64, error) {
		return 1024 * 1024, nil
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := Log(context.Background(), logger, "memory before index build")

	if s.Resident != 1024*1024 {
		t.Errorf("Resident = %d, want %d", s.Resident, 1024*1024)
	}
	out := buf.String()
	if !strings.Contains(out, "memory before index build") {
		t.Errorf("log output %q missing message", out)
	}
	if !strings.Contains(out, `resident="1.0 MiB"`) {
		t.Errorf("log output %q missing resident size", out)
	}
}
