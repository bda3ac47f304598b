// Package analyzer is the core analysis engine: it resolves which titles and
// chapters belong to an agency, extracts exactly that text, and reduces it to
// per-agency metrics for a point in time.
package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/regmeter/regmeter/internal/doctree"
	"github.com/regmeter/regmeter/internal/metrics"
	"github.com/regmeter/regmeter/internal/parser"
	"github.com/regmeter/regmeter/internal/refindex"
	"github.com/regmeter/regmeter/internal/store"
)

// DocumentStore is the persistence collaborator: raw blobs addressable by
// (title, date) plus the reference feed. Missing blobs return store.ErrNotFound.
type DocumentStore interface {
	Document(title int, date string) ([]byte, error)
	PutDocument(title int, date string, data []byte) error
	Agencies() ([]byte, error)
	PutAgencies(data []byte) error
}

// Fetcher is the download collaborator, invoked on demand when a document is
// not available locally.
type Fetcher interface {
	TitleXML(ctx context.Context, date string, title int) ([]byte, error)
	Agencies(ctx context.Context) ([]byte, error)
}

// Report is the metrics record for one agency at one date.
type Report struct {
	AgencyName     string   `json:"agency_name"`
	WordCount      int      `json:"word_count"`
	Checksum       string   `json:"checksum"`
	Complexity     *float64 `json:"complexity"`
	TitlesCount    int      `json:"titles_count"`
	TitlesAnalyzed []int    `json:"titles_analyzed"`
}

// Analyzer orchestrates the resolver, parser and metrics computer. Runs are
// single-pass and synchronous; per-title fetch and parse failures are logged
// and skipped, never fatal to the request.
type Analyzer struct {
	store   DocumentStore
	fetcher Fetcher
	log     *slog.Logger

	// mu serializes the lazy index load; the server calls the analyzer from
	// per-request goroutines.
	mu    sync.Mutex
	index *refindex.Index
}

func New(st DocumentStore, f Fetcher, log *slog.Logger) *Analyzer {
	return &Analyzer{
		store:   st,
		fetcher: f,
		log:     log,
	}
}

// Index returns the agency reference index, loading the feed from the store
// (fetching it first if absent) on first use. Concurrent callers block until
// the single load completes; a failed load is retried by the next caller.
func (a *Analyzer) Index(ctx context.Context) (*refindex.Index, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index != nil {
		return a.index, nil
	}

	data, err := a.store.Agencies()
	if errors.Is(err, store.ErrNotFound) {
		a.log.Info("agency feed not found locally, fetching")
		data, err = a.fetcher.Agencies(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch agency feed: %w", err)
		}
		if putErr := a.store.PutAgencies(data); putErr != nil {
			a.log.Warn("failed to cache agency feed", "error", putErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("load agency feed: %w", err)
	}

	feed, err := refindex.ParseFeed(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	a.index = refindex.BuildIndex(feed)
	return a.index, nil
}

// AgencyNames lists every agency display name from the feed, sorted.
func (a *Analyzer) AgencyNames(ctx context.Context) ([]string, error) {
	ix, err := a.Index(ctx)
	if err != nil {
		return nil, err
	}
	return ix.Names(), nil
}

// Analyze computes metrics for every known agency at the given date, keyed by
// agency name. When agencyFilter is non-empty only that agency is analyzed;
// an unknown filter name is a resolution error. Agencies whose titles yield
// no text at the date are absent from the result, not an error.
func (a *Analyzer) Analyze(ctx context.Context, date, agencyFilter string) (map[string]Report, error) {
	ix, err := a.Index(ctx)
	if err != nil {
		return nil, err
	}

	var agencies []*refindex.Agency
	if agencyFilter != "" {
		agency, err := ix.Lookup(agencyFilter)
		if err != nil {
			return nil, err
		}
		agencies = []*refindex.Agency{agency}
	} else {
		agencies = ix.Agencies()
	}

	results := make(map[string]Report)
	for _, agency := range agencies {
		report, ok := a.analyzeAgency(ctx, agency, date)
		if ok {
			results[agency.Name] = report
		}
	}
	return results, nil
}

// analyzeAgency aggregates one agency's titles at one date. Titles are
// visited in ascending numeric order so the concatenation, and therefore the
// checksum, is reproducible across runs. The reported word count is the sum
// of per-title counts.
func (a *Analyzer) analyzeAgency(ctx context.Context, agency *refindex.Agency, date string) (Report, bool) {
	log := a.log.With("agency", agency.Name, "date", date)

	var parts []string
	var analyzed []int
	totalWords := 0

	for _, title := range agency.Titles {
		root, ok := a.loadTitle(ctx, log, title, date)
		if !ok {
			continue
		}

		text := parser.Extract(root, agency.ChaptersFor(title))
		if strings.TrimSpace(text) == "" {
			log.Debug("no relevant text in title", "title", title)
			continue
		}

		totalWords += metrics.WordCount(text)
		parts = append(parts, text)
		analyzed = append(analyzed, title)
	}

	combined := strings.Join(parts, " ")
	if strings.TrimSpace(combined) == "" {
		log.Debug("no data for agency at date")
		return Report{}, false
	}

	var complexity *float64
	if grade, ok := metrics.Complexity(combined); ok {
		complexity = &grade
	}

	return Report{
		AgencyName:     agency.Name,
		WordCount:      totalWords,
		Checksum:       metrics.Checksum(combined),
		Complexity:     complexity,
		TitlesCount:    len(analyzed),
		TitlesAnalyzed: analyzed,
	}, true
}

// Sections returns the chapter-heading to chapter-text mapping for one agency
// at one date. Chapters that yield no text are omitted.
func (a *Analyzer) Sections(ctx context.Context, agencyName, date string) (map[string]string, error) {
	ix, err := a.Index(ctx)
	if err != nil {
		return nil, err
	}
	agency, err := ix.Lookup(agencyName)
	if err != nil {
		return nil, err
	}

	log := a.log.With("agency", agency.Name, "date", date)
	sections := make(map[string]string)
	for _, title := range agency.Titles {
		root, ok := a.loadTitle(ctx, log, title, date)
		if !ok {
			continue
		}
		for heading, text := range parser.ExtractSections(root, agency.ChaptersFor(title)) {
			if strings.TrimSpace(text) != "" {
				sections[heading] = text
			}
		}
	}
	return sections, nil
}

// loadTitle obtains and parses one title document for a date, fetching it on
// a local miss. Any failure excludes the title from the current aggregate.
func (a *Analyzer) loadTitle(ctx context.Context, log *slog.Logger, title int, date string) (*doctree.Node, bool) {
	data, err := a.store.Document(title, date)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("title not found locally, fetching", "title", title)
		data, err = a.fetcher.TitleXML(ctx, date, title)
		if err != nil {
			log.Warn("fetch failed, skipping title", "title", title, "error", err)
			return nil, false
		}
		if putErr := a.store.PutDocument(title, date, data); putErr != nil {
			log.Warn("failed to cache title", "title", title, "error", putErr)
		}
	} else if err != nil {
		log.Warn("read failed, skipping title", "title", title, "error", err)
		return nil, false
	}

	node, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		log.Warn("parse failed, skipping title", "title", title, "error", err)
		return nil, false
	}
	return node, true
}
