package rollup

import groupstatus "liftops-cloud/internal/groupstatus/domain"

// WindowDays is the trailing window downtime summaries cover.
const WindowDays = 7

// DefaultSignificantDigits applies when a caller does not supply one.
const DefaultSignificantDigits = 3

// Standard measurement types sampled for zero-reading downtime.
const (
	StdMeasurementFrequency        = 2
	StdMeasurementGasInjectionRate = 47
)

// RodPumpDay is one day of rod-pump runtime data for a node.
type RodPumpDay struct {
	NodeID          string
	RuntimeHours    float64
	Cycles          float64
	IdleTimeMinutes float64
}

// Downtime computes the day's downtime hours, floored at zero.
func (d RodPumpDay) Downtime() float64 {
	downtime := 24 - d.RuntimeHours - d.Cycles*d.IdleTimeMinutes/60
	if downtime < 0 {
		return 0
	}
	return downtime
}

// SampledDowntimeHours scales the fraction of exactly-zero samples to hours
// over the window. Used for ESP and gas-lift assets.
func SampledDowntimeHours(samples []float64, windowHours float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	zeros := 0
	for _, sample := range samples {
		if sample == 0 {
			zeros++
		}
	}
	return float64(zeros) / float64(len(samples)) * windowHours
}

// DowntimeBand is one fixed duration band of the downtime widget.
type DowntimeBand struct {
	Label    string
	MinHours float64
	MaxHours float64
}

// DowntimeBands are the fixed bands, in display order. MaxHours of the last
// band is unbounded.
var DowntimeBands = []DowntimeBand{
	{Label: "<6h", MinHours: 0, MaxHours: 6},
	{Label: "6-12h", MinHours: 6, MaxHours: 12},
	{Label: "12-24h", MinHours: 12, MaxHours: 24},
	{Label: "24-48h", MinHours: 24, MaxHours: 48},
	{Label: "48-72h", MinHours: 48, MaxHours: 72},
	{Label: "72-96h", MinHours: 72, MaxHours: 96},
	{Label: ">96h", MinHours: 96, MaxHours: 0},
}

// BandFor returns the band label for a per-asset downtime total.
func BandFor(hours float64) string {
	for _, band := range DowntimeBands[:len(DowntimeBands)-1] {
		if hours < band.MaxHours {
			return band.Label
		}
	}
	return DowntimeBands[len(DowntimeBands)-1].Label
}

// BandSummary is one reported band with its share of assets that had any
// downtime.
type BandSummary struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SummarizeDowntime buckets per-asset downtime totals into the fixed bands.
// Assets with zero downtime are excluded from both counts and the
// percentage base. Percentages are rounded to the given significant digits.
func SummarizeDowntime(totals map[string]float64, digits int) []BandSummary {
	if digits <= 0 {
		digits = DefaultSignificantDigits
	}

	counts := make(map[string]int, len(DowntimeBands))
	nonZero := 0
	for _, hours := range totals {
		if hours <= 0 {
			continue
		}
		nonZero++
		counts[BandFor(hours)]++
	}

	summaries := make([]BandSummary, 0, len(DowntimeBands))
	for _, band := range DowntimeBands {
		summary := BandSummary{Label: band.Label, Count: counts[band.Label]}
		if nonZero > 0 {
			summary.Percent = groupstatus.RoundToSignificantDigits(float64(summary.Count)/float64(nonZero)*100, digits)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
