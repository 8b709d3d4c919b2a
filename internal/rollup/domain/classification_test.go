package rollup

import (
	"math"
	"testing"
)

func TestSummarizeClassificationsOrdering(t *testing.T) {
	counts := []ClassificationCount{
		{Name: "Flowing", Priority: 3, Count: 40},
		{Name: "Down", Priority: 1, Count: 5},
		{Name: "Pumped Off", Priority: 2, Count: 40},
	}

	summaries := SummarizeClassifications(counts, 100)
	// priority wins after the initial count ordering
	want := []string{"Down", "Pumped Off", "Flowing"}
	for i, name := range want {
		if summaries[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, summaries[i].Name)
		}
	}
	if summaries[0].Percent != 5 {
		t.Fatalf("expected 5%%, got %v", summaries[0].Percent)
	}
}

func TestSummarizeClassificationsTwoSignificantDigits(t *testing.T) {
	counts := []ClassificationCount{{Name: "Down", Priority: 1, Count: 1}}
	summaries := SummarizeClassifications(counts, 3)
	// 33.333... rounds to 2 significant digits
	if math.Abs(summaries[0].Percent-33) > 1e-9 {
		t.Fatalf("expected 33, got %v", summaries[0].Percent)
	}
}

func TestSummarizeClassificationsEmptyPopulation(t *testing.T) {
	summaries := SummarizeClassifications(nil, 0)
	if len(summaries) != 0 {
		t.Fatalf("expected empty result, got %+v", summaries)
	}
}

func TestSummarizeAlarmsOrdersByCount(t *testing.T) {
	counts := []AlarmCount{
		{Description: "Low Flow", Count: 2},
		{Description: "High Pressure", Count: 9},
	}
	summaries := SummarizeAlarms(counts, 10)
	if summaries[0].Description != "High Pressure" {
		t.Fatalf("expected descending count order, got %+v", summaries)
	}
	if summaries[0].Percent != 90 {
		t.Fatalf("expected 90%%, got %v", summaries[0].Percent)
	}
}

func TestSummarizeRunStatus(t *testing.T) {
	statuses := map[string]string{
		"WELL-01": "Shutdown: High Pressure",
		"WELL-02": "shutdown: high pressure",
		"WELL-03": "Running",
		"WELL-04": "Shutdown: High Pressure",
		"WELL-05": "",
	}

	summaries := SummarizeRunStatus(statuses, 5)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 exact-string groups, got %+v", summaries)
	}
	byStatus := make(map[string]RunStatusSummary)
	for _, summary := range summaries {
		byStatus[summary.Status] = summary
	}
	if byStatus["Shutdown: High Pressure"].Count != 2 {
		t.Fatalf("expected exact grouping, got %+v", summaries)
	}
	// division by the full population, not the matched subset
	if byStatus["Shutdown: High Pressure"].Percent != 40 {
		t.Fatalf("expected 40%%, got %v", byStatus["Shutdown: High Pressure"].Percent)
	}
}
