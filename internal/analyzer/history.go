package analyzer

import "context"

// DateMetrics is the per-date subset recorded in a history record.
type DateMetrics struct {
	WordCount  int      `json:"word_count"`
	Checksum   string   `json:"checksum"`
	Complexity *float64 `json:"complexity"`
}

// Delta is the change between exactly two dates. ComplexityChange is nil
// unless both dates produced a defined complexity.
type Delta struct {
	WordCount        int      `json:"word_count"`
	ComplexityChange *float64 `json:"complexity_change"`
}

// HistoryRecord holds one agency's metrics per requested date, plus a delta
// when exactly two dates were requested and both produced metrics.
type HistoryRecord struct {
	Dates map[string]DateMetrics `json:"dates"`
	Delta *Delta                 `json:"delta,omitempty"`
}

// History runs the analyzer once per requested date and collects per-agency
// records. Agencies missing a record on a date are included with only the
// dates that succeeded; the delta is computed as date2 minus date1, so
// requesting the dates in reverse order negates it.
func (a *Analyzer) History(ctx context.Context, dates []string, agencyFilter string) (map[string]*HistoryRecord, error) {
	history := make(map[string]*HistoryRecord)

	for _, date := range dates {
		results, err := a.Analyze(ctx, date, agencyFilter)
		if err != nil {
			return nil, err
		}
		for name, report := range results {
			rec := history[name]
			if rec == nil {
				rec = &HistoryRecord{Dates: make(map[string]DateMetrics)}
				history[name] = rec
			}
			rec.Dates[date] = DateMetrics{
				WordCount:  report.WordCount,
				Checksum:   report.Checksum,
				Complexity: report.Complexity,
			}
		}
	}

	if len(dates) == 2 {
		start, end := dates[0], dates[1]
		for _, rec := range history {
			first, okFirst := rec.Dates[start]
			second, okSecond := rec.Dates[end]
			if !okFirst || !okSecond {
				continue
			}
			delta := &Delta{WordCount: second.WordCount - first.WordCount}
			if first.Complexity != nil && second.Complexity != nil {
				change := *second.Complexity - *first.Complexity
				delta.ComplexityChange = &change
			}
			rec.Delta = delta
		}
	}

	return history, nil
}
