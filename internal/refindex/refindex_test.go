package refindex

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleFeed = `{
  "agencies": [
    {
      "name": "department of tests",
      "display_name": "Department of Tests",
      "cfr_references": [
        {"title": 5, "chapter": "I"},
        {"title": 5, "chapter": "II"},
        {"title": 2, "chapter": "XX"}
      ]
    },
    {
      "name": "Whole Title Agency",
      "cfr_references": [
        {"title": 7, "chapter": null},
        {"title": 7, "chapter": "IV"}
      ]
    },
    {
      "name": "Paper Agency",
      "cfr_references": []
    }
  ]
}`

func buildSample(t *testing.T) *Index {
	t.Helper()
	feed, err := ParseFeed(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return BuildIndex(feed)
}

func TestParseFeed_Malformed(t *testing.T) {
	if _, err := ParseFeed(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestBuildIndex_TitlesAscending(t *testing.T) {
	ix := buildSample(t)
	agency, err := ix.Lookup("Department of Tests")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(agency.Titles, []int{2, 5}) {
		t.Errorf("expected titles [2 5], got %v", agency.Titles)
	}
	if got := agency.ChaptersFor(5); !reflect.DeepEqual(got, []string{"I", "II"}) {
		t.Errorf("expected chapters [I II] for title 5, got %v", got)
	}
	if got := agency.ChaptersFor(2); !reflect.DeepEqual(got, []string{"XX"}) {
		t.Errorf("expected chapters [XX] for title 2, got %v", got)
	}
}

func TestBuildIndex_MissingChapterWidensToWholeTitle(t *testing.T) {
	ix := buildSample(t)
	agency, err := ix.Lookup("Whole Title Agency")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One chapterless reference means the whole title, even though another
	// reference names chapter IV.
	if got := agency.ChaptersFor(7); got != nil {
		t.Errorf("expected nil (whole title), got %v", got)
	}
}

func TestBuildIndex_OmitsAgenciesWithoutTitles(t *testing.T) {
	ix := buildSample(t)
	if _, err := ix.Lookup("Paper Agency"); !errors.Is(err, ErrNoSuchAgency) {
		t.Errorf("expected ErrNoSuchAgency, got %v", err)
	}
	// It still shows up in the display-name listing.
	names := ix.Names()
	want := []string{"Department of Tests", "Paper Agency", "Whole Title Agency"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected names %v, got %v", want, names)
	}
}

func TestBuildIndex_MergesDuplicateDisplayNames(t *testing.T) {
	feedJSON := `{
	  "agencies": [
	    {"name": "x", "display_name": "Agency A", "cfr_references": [{"title": 9, "chapter": "I"}]},
	    {"name": "y", "display_name": "Agency A", "cfr_references": [{"title": 3, "chapter": "II"}, {"title": 9, "chapter": "III"}]}
	  ]
	}`
	feed, err := ParseFeed(strings.NewReader(feedJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ix := BuildIndex(feed)

	agency, err := ix.Lookup("Agency A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(agency.Titles, []int{3, 9}) {
		t.Errorf("expected merged titles [3 9], got %v", agency.Titles)
	}
	if got := agency.ChaptersFor(9); !reflect.DeepEqual(got, []string{"I", "III"}) {
		t.Errorf("expected merged chapters [I III], got %v", got)
	}
	if len(ix.Agencies()) != 1 {
		t.Errorf("expected a single merged agency, got %d", len(ix.Agencies()))
	}
}

func TestAgencies_SortedByName(t *testing.T) {
	ix := buildSample(t)
	agencies := ix.Agencies()
	if len(agencies) != 2 {
		t.Fatalf("expected 2 indexed agencies, got %d", len(agencies))
	}
	if agencies[0].Name != "Department of Tests" || agencies[1].Name != "Whole Title Agency" {
		t.Errorf("unexpected order: %s, %s", agencies[0].Name, agencies[1].Name)
	}
}

func TestLookup_Unknown(t *testing.T) {
	ix := buildSample(t)
	if _, err := ix.Lookup("Ministry of Silly Walks"); !errors.Is(err, ErrNoSuchAgency) {
		t.Errorf("expected ErrNoSuchAgency, got %v", err)
	}
}
