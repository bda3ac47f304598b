package api

import (
	"errors"
	"net/http"

	"github.com/regmeter/regmeter/internal/refindex"
	"github.com/regmeter/regmeter/internal/report"
)

// handleReport renders an analysis report for one date, as markdown or HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	date, ok := s.requireDate(w, r)
	if !ok {
		return
	}
	agency := r.URL.Query().Get("agency")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "md"
	}
	if format != "md" && format != "html" {
		jsonError(w, "format must be md or html", http.StatusBadRequest)
		return
	}

	results, err := s.analyzer.Analyze(r.Context(), date, agency)
	if errors.Is(err, refindex.ErrNoSuchAgency) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	md := report.Build(date, results)
	if format == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
		return
	}

	html, err := report.RenderHTML(md)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
