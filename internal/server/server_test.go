package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rickgao/yield-index/internal/config"
	"github.com/rickgao/yield-index/internal/index"
	"github.com/rickgao/yield-index/internal/model"
	"github.com/rickgao/yield-index/internal/version"
)

const day = 86400

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func publishedServer(t *testing.T) *Server {
	t.Helper()

	b := index.NewBuilder()
	for _, r := range []model.Record{
		{ItemID: 1, Timestamp: 0, Price: 10},
		{ItemID: 1, Timestamp: day, Price: 20},
		{ItemID: 2, Timestamp: 4 * day, Price: 5},
	} {
		if err := b.Append(r); err != nil {
			t.Fatalf("Append(%+v) error = %v", r, err)
		}
	}

	var holder index.Holder
	if err := holder.Publish(b.Finish()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	return New(config.ServerConfig{Port: 0}, &holder, discardLogger())
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Run("building", func(t *testing.T) {
		s := New(config.ServerConfig{}, &index.Holder{}, discardLogger())
		rec := get(t, s, "/health")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["status"] != "building" {
			t.Errorf("status = %q, want %q", body["status"], "building")
		}
	})

	t.Run("ready", func(t *testing.T) {
		rec := get(t, publishedServer(t), "/health")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var body struct {
			Status  string `json:"status"`
			BuildID string `json:"build_id"`
			Items   int    `json:"items"`
			Periods int    `json:"periods"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != "ready" {
			t.Errorf("status = %q, want %q", body.Status, "ready")
		}
		if body.Items != 2 {
			t.Errorf("items = %d, want 2", body.Items)
		}
		if body.Periods != 3 {
			t.Errorf("periods = %d, want 3", body.Periods)
		}
		if body.BuildID == "" {
			t.Error("build_id should not be empty")
		}
	})
}

func TestVersion(t *testing.T) {
	rec := get(t, publishedServer(t), "/version")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got version.Info
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != version.Get() {
		t.Errorf("version = %+v, want %+v", got, version.Get())
	}
}

func TestPrice(t *testing.T) {
	s := publishedServer(t)

	tests := []struct {
		name   string
		target string
		status int
		price  uint16
	}{
		{"whole days", "/items/1/price?begin=0&end=172800", http.StatusOK, 30},
		{"half days at both ends", "/items/1/price?begin=43200&end=129600", http.StatusOK, 15},
		{"gap days default to one", "/items/2/price?begin=172800&end=432000", http.StatusOK, 7},
		{"rfc3339", "/items/1/price?begin=1970-01-01T00:00:00Z&end=1970-01-03T00:00:00Z", http.StatusOK, 30},
		{"unknown item", "/items/9/price?begin=0&end=86400", http.StatusNotFound, 0},
		{"empty interval", "/items/1/price?begin=86400&end=86400", http.StatusBadRequest, 0},
		{"reversed interval", "/items/1/price?begin=86400&end=0", http.StatusBadRequest, 0},
		{"bad item id", "/items/abc/price?begin=0&end=86400", http.StatusBadRequest, 0},
		{"missing begin", "/items/1/price?end=86400", http.StatusBadRequest, 0},
		{"bad end", "/items/1/price?begin=0&end=tomorrow", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}

			if tt.status != http.StatusOK {
				var body errorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body.Error == "" {
					t.Error("error message should not be empty")
				}
				return
			}

			var body priceResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Price != tt.price {
				t.Errorf("price = %d, want %d", body.Price, tt.price)
			}
		})
	}
}

func TestPrice_NotPublished(t *testing.T) {
	s := New(config.ServerConfig{}, &index.Holder{}, discardLogger())
	rec := get(t, s, "/items/1/price?begin=0&end=86400")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestPeriods(t *testing.T) {
	s := publishedServer(t)

	rec := get(t, s, "/items/1/periods?begin=43200&end=172800")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body periodsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []periodJSON{
		{Begin: 0, End: day, Price: 10},
		{Begin: day, End: 2 * day, Price: 20},
	}
	if len(body.Periods) != len(want) {
		t.Fatalf("periods = %+v, want %+v", body.Periods, want)
	}
	for i := range want {
		if body.Periods[i] != want[i] {
			t.Errorf("periods[%d] = %+v, want %+v", i, body.Periods[i], want[i])
		}
	}

	rec = get(t, s, "/items/2/periods?begin=0&end=86400")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body = periodsResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Periods == nil || len(body.Periods) != 0 {
		t.Errorf("periods = %#v, want empty list", body.Periods)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"0", 0, false},
		{"1707350400", 1707350400, false},
		{"4294967295", 4294967295, false},
		{"4294967296", 0, true},
		{"-1", 0, true},
		{"", 0, true},
		{"2024-02-08T12:34:56Z", 1707395640, false},
		{"1970-01-02T00:00:00+05:00", day, false},
		{"1969-12-31T23:59:00Z", 0, true},
		{"2107-01-01T00:00:00Z", 0, true},
		{"2024-02-08", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
