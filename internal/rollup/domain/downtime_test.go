package rollup

import (
	"math"
	"testing"
)

func TestRodPumpDayDowntime(t *testing.T) {
	cases := []struct {
		name string
		day  RodPumpDay
		want float64
	}{
		{"typical", RodPumpDay{RuntimeHours: 20, Cycles: 2, IdleTimeMinutes: 30}, 3},
		{"full runtime", RodPumpDay{RuntimeHours: 24}, 0},
		{"negative floors to zero", RodPumpDay{RuntimeHours: 23, Cycles: 10, IdleTimeMinutes: 30}, 0},
		{"idle only", RodPumpDay{RuntimeHours: 0, Cycles: 4, IdleTimeMinutes: 15}, 23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.day.Downtime(); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if tc.day.Downtime() < 0 {
				t.Fatal("downtime must never be negative")
			}
		})
	}
}

func TestRodPumpWeekAccumulation(t *testing.T) {
	// one day at runtime=20h, idle=30min, cycles=2 gives 3h of downtime;
	// seven identical days accumulate to 21h, which lands in the 12-24h band
	day := RodPumpDay{RuntimeHours: 20, Cycles: 2, IdleTimeMinutes: 30}
	total := 0.0
	for i := 0; i < WindowDays; i++ {
		total += day.Downtime()
	}
	if math.Abs(total-21) > 1e-9 {
		t.Fatalf("expected 21h over the window, got %v", total)
	}
	if band := BandFor(total); band != "12-24h" {
		t.Fatalf("expected 12-24h band, got %q", band)
	}
}

func TestSampledDowntimeHours(t *testing.T) {
	samples := []float64{0, 50, 0, 50}
	if got := SampledDowntimeHours(samples, 168); got != 84 {
		t.Fatalf("expected 84h, got %v", got)
	}
	if got := SampledDowntimeHours(nil, 168); got != 0 {
		t.Fatalf("expected 0 for no samples, got %v", got)
	}
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{0.5, "<6h"},
		{6, "6-12h"},
		{23.9, "12-24h"},
		{48, "48-72h"},
		{95.9, "72-96h"},
		{96, ">96h"},
		{500, ">96h"},
	}
	for _, tc := range cases {
		if got := BandFor(tc.hours); got != tc.want {
			t.Fatalf("%vh: expected %q, got %q", tc.hours, tc.want, got)
		}
	}
}

func TestSummarizeDowntime(t *testing.T) {
	totals := map[string]float64{
		"WELL-01": 21,  // 12-24h
		"WELL-02": 3,   // <6h
		"WELL-03": 0,   // excluded
		"WELL-04": 130, // >96h
	}

	summaries := SummarizeDowntime(totals, 3)
	byLabel := make(map[string]BandSummary)
	for _, summary := range summaries {
		byLabel[summary.Label] = summary
	}

	if byLabel["12-24h"].Count != 1 || byLabel["<6h"].Count != 1 || byLabel[">96h"].Count != 1 {
		t.Fatalf("unexpected counts: %+v", summaries)
	}
	// three assets had non-zero downtime
	if got := byLabel["12-24h"].Percent; math.Abs(got-33.3) > 1e-9 {
		t.Fatalf("expected 33.3, got %v", got)
	}
	if byLabel["6-12h"].Count != 0 || byLabel["6-12h"].Percent != 0 {
		t.Fatalf("empty bands report zero: %+v", byLabel["6-12h"])
	}
}

func TestSummarizeDowntimeEmpty(t *testing.T) {
	summaries := SummarizeDowntime(nil, 0)
	if len(summaries) != len(DowntimeBands) {
		t.Fatalf("expected all bands reported, got %d", len(summaries))
	}
	for _, summary := range summaries {
		if summary.Count != 0 || summary.Percent != 0 {
			t.Fatalf("expected zeroes, got %+v", summary)
		}
	}
}
