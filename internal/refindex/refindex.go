// Package refindex maps agency names to the titles and chapters their
// regulatory text lives in, built from the externally supplied reference feed.
package refindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrNoSuchAgency is returned when an agency name is not present in the index.
var ErrNoSuchAgency = errors.New("no such agency")

// Feed mirrors the raw agency reference feed.
type Feed struct {
	Agencies []FeedAgency `json:"agencies"`
}

// FeedAgency is one agency entry in the feed.
type FeedAgency struct {
	Name          string         `json:"name"`
	DisplayName   string         `json:"display_name"`
	CFRReferences []CFRReference `json:"cfr_references"`
}

// CFRReference associates an agency with a title and, optionally, a chapter.
// A nil Chapter means the whole title is relevant.
type CFRReference struct {
	Title   int     `json:"title"`
	Chapter *string `json:"chapter"`
}

// DisplayOrName returns the agency's resolved display name.
func (a FeedAgency) DisplayOrName() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

// Agency is one indexed organizational unit.
type Agency struct {
	Name   string
	Titles []int // ascending, unique

	// chapters[title] lists the chapter codes the agency is scoped to within
	// that title. A missing or nil entry means the whole title.
	chapters map[int][]string
}

// Index resolves agency names to their title and chapter scope.
type Index struct {
	agencies map[string]*Agency
	names    []string // every feed display name, sorted
}

// ParseFeed decodes the raw reference feed.
func ParseFeed(r io.Reader) (*Feed, error) {
	var feed Feed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode agency feed: %w", err)
	}
	return &feed, nil
}

// BuildIndex flattens the feed into one entry per agency display name that
// has at least one title reference. Duplicate display names merge: later feed
// entries amend the earlier title and chapter sets rather than replacing them.
func BuildIndex(feed *Feed) *Index {
	ix := &Index{agencies: make(map[string]*Agency)}

	nameSeen := make(map[string]bool)
	for _, fa := range feed.Agencies {
		name := strings.TrimSpace(fa.DisplayOrName())
		if name == "" {
			continue
		}
		if !nameSeen[name] {
			nameSeen[name] = true
			ix.names = append(ix.names, name)
		}

		titleChapters := make(map[int][]string)
		wholeTitle := make(map[int]bool)
		for _, ref := range fa.CFRReferences {
			if ref.Title <= 0 {
				continue
			}
			if ref.Chapter == nil {
				// One chapterless reference widens the filter to the whole
				// title; a partial filter would silently drop text.
				wholeTitle[ref.Title] = true
				if _, ok := titleChapters[ref.Title]; !ok {
					titleChapters[ref.Title] = nil
				}
				continue
			}
			if !wholeTitle[ref.Title] {
				titleChapters[ref.Title] = append(titleChapters[ref.Title], *ref.Chapter)
			}
		}
		if len(titleChapters) == 0 {
			continue
		}

		agency := ix.agencies[name]
		if agency == nil {
			agency = &Agency{Name: name, chapters: make(map[int][]string)}
			ix.agencies[name] = agency
		}
		for title, codes := range titleChapters {
			agency.mergeTitle(title, codes, wholeTitle[title])
		}
	}

	for _, agency := range ix.agencies {
		sort.Ints(agency.Titles)
	}
	sort.Strings(ix.names)
	return ix
}

func (a *Agency) mergeTitle(title int, codes []string, whole bool) {
	existing, known := a.chapters[title]
	if !known {
		a.Titles = append(a.Titles, title)
	}
	switch {
	case whole || (known && existing == nil):
		a.chapters[title] = nil
	default:
		a.chapters[title] = append(existing, codes...)
	}
}

// Names lists every agency display name that appeared in the feed, sorted.
func (ix *Index) Names() []string {
	return ix.names
}

// Agencies lists the indexed agencies (those with at least one title
// reference) sorted by name, for deterministic full-run iteration.
func (ix *Index) Agencies() []*Agency {
	out := make([]*Agency, 0, len(ix.agencies))
	for _, a := range ix.agencies {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup resolves an agency by display name.
func (ix *Index) Lookup(name string) (*Agency, error) {
	a, ok := ix.agencies[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNoSuchAgency)
	}
	return a, nil
}

// ChaptersFor returns the chapter codes the agency is scoped to within the
// given title. A nil result means the whole title is relevant, either because
// the feed supplied no chapter codes for it or because at least one reference
// left the chapter undefined.
func (a *Agency) ChaptersFor(title int) []string {
	return a.chapters[title]
}
