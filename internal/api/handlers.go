package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/regmeter/regmeter/internal/analyzer"
	"github.com/regmeter/regmeter/internal/refindex"
)

// handleAgencies lists every known agency display name, sorted.
func (s *Server) handleAgencies(w http.ResponseWriter, r *http.Request) {
	names, err := s.analyzer.AgencyNames(r.Context())
	if err != nil {
		jsonError(w, "failed to load agencies: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, names)
}

// handleAgencySections returns the relevant chapter sections for one agency
// at one date.
func (s *Server) handleAgencySections(w http.ResponseWriter, r *http.Request) {
	agency := r.URL.Query().Get("agency")
	if agency == "" {
		jsonError(w, "agency query parameter is required", http.StatusBadRequest)
		return
	}
	date, ok := s.requireDate(w, r)
	if !ok {
		return
	}

	sections, err := s.analyzer.Sections(r.Context(), agency, date)
	if errors.Is(err, refindex.ErrNoSuchAgency) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to extract sections: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(sections) == 0 {
		jsonError(w, "no sections found for this agency", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"agency":   agency,
		"sections": sections,
	})
}

// handleHistorical returns per-date metrics for an agency, with a delta when
// exactly two dates are requested.
func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	agency := r.URL.Query().Get("agency")
	if agency == "" {
		jsonError(w, "agency query parameter is required", http.StatusBadRequest)
		return
	}
	dates := r.URL.Query()["dates"]
	if len(dates) == 0 {
		jsonError(w, "at least one dates query parameter is required", http.StatusBadRequest)
		return
	}
	for _, d := range dates {
		if !validDate(d) {
			jsonError(w, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", d), http.StatusBadRequest)
			return
		}
	}

	history, err := s.analyzer.History(r.Context(), dates, agency)
	if errors.Is(err, refindex.ErrNoSuchAgency) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, history)
}

// handleWordCount returns word counts per agency for a single date.
func (s *Server) handleWordCount(w http.ResponseWriter, r *http.Request) {
	s.handleMetricView(w, r, func(rep analyzer.Report) any { return rep.WordCount })
}

// handleChecksums returns content checksums per agency for a single date.
func (s *Server) handleChecksums(w http.ResponseWriter, r *http.Request) {
	s.handleMetricView(w, r, func(rep analyzer.Report) any { return rep.Checksum })
}

// handleComplexity returns complexity grades per agency for a single date.
// Agencies with an undefined complexity report null.
func (s *Server) handleComplexity(w http.ResponseWriter, r *http.Request) {
	s.handleMetricView(w, r, func(rep analyzer.Report) any { return rep.Complexity })
}

func (s *Server) handleMetricView(w http.ResponseWriter, r *http.Request, pick func(analyzer.Report) any) {
	date, ok := s.requireDate(w, r)
	if !ok {
		return
	}
	agency := r.URL.Query().Get("agency")

	results, err := s.analyzer.Analyze(r.Context(), date, agency)
	if errors.Is(err, refindex.ErrNoSuchAgency) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	view := make(map[string]any, len(results))
	for name, rep := range results {
		view[name] = pick(rep)
	}
	writeJSON(w, view)
}

// handleFetchStats reports download latency aggregates.
func (s *Server) handleFetchStats(w http.ResponseWriter, r *http.Request) {
	if s.fetchStats == nil {
		jsonError(w, "fetch stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{"stats": s.fetchStats.Snapshot()})
}

// requireDate reads the date parameter, defaulting to the configured date.
func (s *Server) requireDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.cfg.DefaultDate
	}
	if !validDate(date) {
		jsonError(w, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date), http.StatusBadRequest)
		return "", false
	}
	return date, true
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
