// Package report renders analysis results as a markdown document, with an
// HTML form for browser consumers.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/regmeter/regmeter/internal/analyzer"
	"github.com/yuin/goldmark"
)

// Build produces a markdown report for one date's analysis results, agencies
// in sorted order.
func Build(date string, results map[string]analyzer.Report) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "# Regulatory Metrics for %s\n\n", date)
	if len(names) == 0 {
		b.WriteString("No agency produced any text at this date.\n")
		return b.String()
	}

	for _, name := range names {
		r := results[name]
		fmt.Fprintf(&b, "## %s\n\n", name)
		fmt.Fprintf(&b, "- Word count: %d\n", r.WordCount)
		fmt.Fprintf(&b, "- Checksum: `%s`\n", r.Checksum)
		if r.Complexity != nil {
			fmt.Fprintf(&b, "- Complexity (grade level): %.2f\n", *r.Complexity)
		} else {
			b.WriteString("- Complexity (grade level): n/a\n")
		}
		fmt.Fprintf(&b, "- Titles analyzed: %s\n\n", formatTitles(r.TitlesAnalyzed))
	}
	return b.String()
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func formatTitles(titles []int) string {
	if len(titles) == 0 {
		return "none"
	}
	parts := make([]string, len(titles))
	for i, t := range titles {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(parts, ", ")
}
