package rollup

import (
	"sort"
	"strings"

	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

// ClassificationCount is one raw classification tally from the event store.
type ClassificationCount struct {
	Name     string
	Priority int
	Count    int
}

// ClassificationSummary is one reported classification with its population
// share.
type ClassificationSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SummarizeClassifications computes population percentages at two
// significant digits and orders by declared priority after an initial
// descending-count ordering.
func SummarizeClassifications(counts []ClassificationCount, population int) []ClassificationSummary {
	ordered := make([]ClassificationCount, len(counts))
	copy(ordered, counts)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Count > ordered[j].Count })
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	summaries := make([]ClassificationSummary, 0, len(ordered))
	for _, count := range ordered {
		summary := ClassificationSummary{Name: count.Name, Count: count.Count}
		if population > 0 {
			summary.Percent = groupstatus.RoundToSignificantDigits(float64(count.Count)/float64(population)*100, 2)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// AlarmCount is one raw alarm tally from the event store.
type AlarmCount struct {
	Description string
	Count       int
}

// AlarmSummary is one reported alarm with its population share.
type AlarmSummary struct {
	Description string  `json:"description"`
	Count       int     `json:"count"`
	Percent     float64 `json:"percent"`
}

// SummarizeAlarms computes population percentages at two significant
// digits, ordered by descending count.
func SummarizeAlarms(counts []AlarmCount, population int) []AlarmSummary {
	ordered := make([]AlarmCount, len(counts))
	copy(ordered, counts)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Count > ordered[j].Count })

	summaries := make([]AlarmSummary, 0, len(ordered))
	for _, count := range ordered {
		summary := AlarmSummary{Description: count.Description, Count: count.Count}
		if population > 0 {
			summary.Percent = groupstatus.RoundToSignificantDigits(float64(count.Count)/float64(population)*100, 2)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// RunStatusSummary is one shutdown run-status group.
type RunStatusSummary struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SummarizeRunStatus counts assets whose run status contains "Shutdown",
// case-insensitively, grouped by the exact status string. Percentages
// divide by the full population, not the matched subset.
func SummarizeRunStatus(statusByNode map[string]string, population int) []RunStatusSummary {
	counts := make(map[string]int)
	for _, status := range statusByNode {
		if strings.Contains(strings.ToLower(status), "shutdown") {
			counts[status]++
		}
	}

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	summaries := make([]RunStatusSummary, 0, len(statuses))
	for _, status := range statuses {
		summary := RunStatusSummary{Status: status, Count: counts[status]}
		if population > 0 {
			summary.Percent = groupstatus.RoundToSignificantDigits(float64(counts[status])/float64(population)*100, 2)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
