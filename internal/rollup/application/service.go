package application

import (
	"context"
	"errors"
	"log"
	"time"

	assets "liftops-cloud/internal/assets/domain"
	rollup "liftops-cloud/internal/rollup/domain"
)

// TimeSeriesStore supplies the downtime inputs over a date window.
type TimeSeriesStore interface {
	// RodPumpDays returns the per-day runtime records for the given nodes.
	RodPumpDays(ctx context.Context, nodeIDs []string, from, to time.Time) ([]rollup.RodPumpDay, error)
	// MeasurementSamples returns the sampled values of one standard
	// measurement type, keyed by node id.
	MeasurementSamples(ctx context.Context, nodeIDs []string, stdMeasurementType int, from, to time.Time) (map[string][]float64, error)
}

// EventStore supplies classification counts, alarm counts, and current run
// statuses for an asset population.
type EventStore interface {
	ClassificationCounts(ctx context.Context, nodeIDs []string) ([]rollup.ClassificationCount, error)
	AlarmCounts(ctx context.Context, nodeIDs []string) ([]rollup.AlarmCount, error)
	RunStatuses(ctx context.Context, nodeIDs []string) (map[string]string, error)
}

// ClassificationWidget is the classification rollup payload.
type ClassificationWidget struct {
	GroupName       string                         `json:"groupName"`
	Population      int                            `json:"population"`
	Classifications []rollup.ClassificationSummary `json:"classifications"`
}

// AlarmWidget is the alarm-count rollup payload.
type AlarmWidget struct {
	GroupName  string                `json:"groupName"`
	Population int                   `json:"population"`
	Alarms     []rollup.AlarmSummary `json:"alarms"`
}

// DowntimeWidget is the combined downtime-by-well and downtime-by-run-status
// payload.
type DowntimeWidget struct {
	GroupName   string                    `json:"groupName"`
	Population  int                       `json:"population"`
	Bands       []rollup.BandSummary      `json:"bands"`
	RunStatuses []rollup.RunStatusSummary `json:"runStatuses"`
}

// Request identifies one widget computation.
type Request struct {
	GroupName     string
	CorrelationID string
}

// WidgetService derives the dashboard rollups from a resolved asset
// population. An empty population is success with empty results, never an
// error.
type WidgetService struct {
	groups assets.GroupResolver
	series TimeSeriesStore
	events EventStore
	logger *log.Logger
	now    func() time.Time
}

// WidgetOption adjusts widget service construction.
type WidgetOption func(*WidgetService)

// WithNow overrides the wall clock, used to pin the trailing window in tests.
func WithNow(now func() time.Time) WidgetOption {
	return func(s *WidgetService) { s.now = now }
}

// NewWidgetService constructs the rollup widget service.
func NewWidgetService(groups assets.GroupResolver, series TimeSeriesStore, events EventStore, logger *log.Logger, opts ...WidgetOption) (*WidgetService, error) {
	if groups == nil {
		return nil, errors.New("rollup: nil group resolver")
	}
	if series == nil {
		return nil, errors.New("rollup: nil time-series store")
	}
	if events == nil {
		return nil, errors.New("rollup: nil event store")
	}
	s := &WidgetService{
		groups: groups,
		series: series,
		events: events,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Classifications computes the classification widget for a group.
func (s *WidgetService) Classifications(ctx context.Context, req Request) (*ClassificationWidget, error) {
	group, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	widget := &ClassificationWidget{
		GroupName:       req.GroupName,
		Population:      len(group.Assets),
		Classifications: []rollup.ClassificationSummary{},
	}
	if len(group.Assets) == 0 {
		return widget, nil
	}

	counts, err := s.events.ClassificationCounts(ctx, group.NodeIDs())
	if err != nil {
		return nil, err
	}
	widget.Classifications = rollup.SummarizeClassifications(counts, len(group.Assets))
	return widget, nil
}

// Alarms computes the alarm-count widget for a group.
func (s *WidgetService) Alarms(ctx context.Context, req Request) (*AlarmWidget, error) {
	group, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	widget := &AlarmWidget{
		GroupName:  req.GroupName,
		Population: len(group.Assets),
		Alarms:     []rollup.AlarmSummary{},
	}
	if len(group.Assets) == 0 {
		return widget, nil
	}

	counts, err := s.events.AlarmCounts(ctx, group.NodeIDs())
	if err != nil {
		return nil, err
	}
	widget.Alarms = rollup.SummarizeAlarms(counts, len(group.Assets))
	return widget, nil
}

// Downtime computes the downtime-by-well bands and the downtime-by-run-status
// groups over the trailing window. Percentages in the band summary use the
// caller-supplied significant-digit count.
func (s *WidgetService) Downtime(ctx context.Context, req Request, digits int) (*DowntimeWidget, error) {
	group, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	widget := &DowntimeWidget{
		GroupName:   req.GroupName,
		Population:  len(group.Assets),
		Bands:       []rollup.BandSummary{},
		RunStatuses: []rollup.RunStatusSummary{},
	}
	if len(group.Assets) == 0 {
		return widget, nil
	}

	totals, err := s.downtimeTotals(ctx, group)
	if err != nil {
		return nil, err
	}
	widget.Bands = rollup.SummarizeDowntime(totals, digits)

	statuses, err := s.events.RunStatuses(ctx, group.NodeIDs())
	if err != nil {
		return nil, err
	}
	widget.RunStatuses = rollup.SummarizeRunStatus(statuses, len(group.Assets))
	return widget, nil
}

// downtimeTotals accumulates the per-asset downtime hours over the trailing
// window: rod pumps from daily runtime records, ESP from zero frequency
// samples, gas lift from zero gas-injection-rate samples.
func (s *WidgetService) downtimeTotals(ctx context.Context, group *assets.Group) (map[string]float64, error) {
	to := s.now()
	from := to.AddDate(0, 0, -rollup.WindowDays)
	windowHours := float64(rollup.WindowDays) * 24

	var rodPump, esp, gasLift []string
	for _, asset := range group.Assets {
		switch asset.IndustryApplicationID {
		case assets.ApplicationRodPump:
			rodPump = append(rodPump, asset.AssetName)
		case assets.ApplicationESP:
			esp = append(esp, asset.AssetName)
		case assets.ApplicationGasLift:
			gasLift = append(gasLift, asset.AssetName)
		}
	}

	totals := make(map[string]float64)
	if len(rodPump) > 0 {
		days, err := s.series.RodPumpDays(ctx, rodPump, from, to)
		if err != nil {
			return nil, err
		}
		for _, node := range rodPump {
			totals[node] = 0
		}
		for _, day := range days {
			totals[day.NodeID] += day.Downtime()
		}
	}
	if err := s.sampledTotals(ctx, totals, esp, rollup.StdMeasurementFrequency, from, to, windowHours); err != nil {
		return nil, err
	}
	if err := s.sampledTotals(ctx, totals, gasLift, rollup.StdMeasurementGasInjectionRate, from, to, windowHours); err != nil {
		return nil, err
	}
	return totals, nil
}

func (s *WidgetService) sampledTotals(ctx context.Context, totals map[string]float64, nodeIDs []string, stdMeasurementType int, from, to time.Time, windowHours float64) error {
	if len(nodeIDs) == 0 {
		return nil
	}
	samples, err := s.series.MeasurementSamples(ctx, nodeIDs, stdMeasurementType, from, to)
	if err != nil {
		return err
	}
	for _, node := range nodeIDs {
		totals[node] = rollup.SampledDowntimeHours(samples[node], windowHours)
	}
	return nil
}

// resolve validates the request and resolves the group, mapping an empty
// group to an empty population rather than an error.
func (s *WidgetService) resolve(ctx context.Context, req Request) (*assets.Group, error) {
	if req.CorrelationID == "" {
		return nil, rollup.ErrMissingCorrelation
	}
	if req.GroupName == "" {
		return nil, rollup.ErrMissingGroup
	}
	group, err := s.groups.Resolve(ctx, req.GroupName, req.CorrelationID)
	if errors.Is(err, assets.ErrNoRecord) {
		return &assets.Group{Name: req.GroupName}, nil
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}
