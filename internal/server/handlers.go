package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rickgao/yield-index/internal/index"
	"github.com/rickgao/yield-index/internal/model"
	"github.com/rickgao/yield-index/internal/pricing"
	"github.com/rickgao/yield-index/internal/version"
)

type priceResponse struct {
	ItemID model.ItemID      `json:"item_id"`
	Begin  pricing.Timestamp `json:"begin"`
	End    pricing.Timestamp `json:"end"`
	Price  pricing.Price     `json:"price"`
}

type periodJSON struct {
	Begin pricing.Timestamp `json:"begin"`
	End   pricing.Timestamp `json:"end"`
	Price pricing.Price     `json:"price"`
}

type periodsResponse struct {
	ItemID  model.ItemID      `json:"item_id"`
	Begin   pricing.Timestamp `json:"begin"`
	End     pricing.Timestamp `json:"end"`
	Periods []periodJSON      `json:"periods"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// errBadRequest marks malformed query parameters.
var errBadRequest = errors.New("bad request")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	table, err := s.holder.Current()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "building"})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		index.TableStats
	}{
		Status:     "ready",
		TableStats: table.Stats(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	table, err := s.holder.Current()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	price, err := table.RangeSum(q.item, q.begin, q.end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, priceResponse{
		ItemID: q.item,
		Begin:  q.begin,
		End:    q.end,
		Price:  price,
	})
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	table, err := s.holder.Current()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	periods, err := table.RangePeriods(q.item, q.begin, q.end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := periodsResponse{
		ItemID:  q.item,
		Begin:   q.begin,
		End:     q.end,
		Periods: make([]periodJSON, 0, len(periods)),
	}
	for _, p := range periods {
		resp.Periods = append(resp.Periods, periodJSON{Begin: p.Begin, End: p.End(), Price: p.Price})
	}
	writeJSON(w, http.StatusOK, resp)
}

type rangeQuery struct {
	item       model.ItemID
	begin, end pricing.Timestamp
}

func parseQuery(r *http.Request) (rangeQuery, error) {
	var q rangeQuery

	id, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 32)
	if err != nil {
		return q, fmt.Errorf("%w: item id %q", errBadRequest, chi.URLParam(r, "itemID"))
	}
	q.item = model.ItemID(id)

	if q.begin, err = ParseTimestamp(r.URL.Query().Get("begin")); err != nil {
		return q, fmt.Errorf("%w: begin: %v", errBadRequest, err)
	}
	if q.end, err = ParseTimestamp(r.URL.Query().Get("end")); err != nil {
		return q, fmt.Errorf("%w: end: %v", errBadRequest, err)
	}
	return q, nil
}

// ParseTimestamp accepts Unix seconds or an RFC 3339 time.
// RFC 3339 times keep their wall clock, reinterpreted as UTC and truncated
// to the minute.
func ParseTimestamp(s string) (pricing.Timestamp, error) {
	if s == "" {
		return 0, errors.New("missing")
	}

	if secs, err := strconv.ParseUint(s, 10, 32); err == nil {
		return pricing.Timestamp(secs), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("want unix seconds or RFC 3339, got %q", s)
	}

	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	secs := wall.Unix()
	if secs < 0 || secs > math.MaxUint32 {
		return 0, fmt.Errorf("%q out of range", s)
	}
	return pricing.Timestamp(secs), nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, index.ErrInvalidInterval):
		status = http.StatusBadRequest
	case errors.Is(err, index.ErrUnknownItem):
		status = http.StatusNotFound
	case errors.Is(err, index.ErrNotPublished):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("query failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
