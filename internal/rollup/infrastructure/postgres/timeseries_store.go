package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	rollup "liftops-cloud/internal/rollup/domain"
)

const (
	defaultRodPumpDailyTable = "rod_pump_daily"
	defaultMeasurementsTable = "measurement_samples"
)

// TimeSeriesStore reads the downtime time series.
type TimeSeriesStore struct {
	db DBTX
}

// NewTimeSeriesStore constructs a time-series store.
func NewTimeSeriesStore(db DBTX) *TimeSeriesStore {
	return &TimeSeriesStore{db: db}
}

// RodPumpDays loads the per-day runtime records for the given nodes inside
// the window.
func (s *TimeSeriesStore) RodPumpDays(ctx context.Context, nodeIDs []string, from, to time.Time) ([]rollup.RodPumpDay, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("time-series store: nil db")
	}
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
SELECT node_id, runtime_hours, cycles, idle_time_minutes
FROM %s
WHERE node_id = ANY($1) AND recorded_on >= $2 AND recorded_on < $3
ORDER BY node_id, recorded_on`, defaultRodPumpDailyTable)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []rollup.RodPumpDay
	for rows.Next() {
		var day rollup.RodPumpDay
		if err := rows.Scan(&day.NodeID, &day.RuntimeHours, &day.Cycles, &day.IdleTimeMinutes); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// MeasurementSamples loads the sampled values of one standard measurement
// type inside the window, keyed by node id.
func (s *TimeSeriesStore) MeasurementSamples(ctx context.Context, nodeIDs []string, stdMeasurementType int, from, to time.Time) (map[string][]float64, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("time-series store: nil db")
	}
	if len(nodeIDs) == 0 {
		return map[string][]float64{}, nil
	}
	query := fmt.Sprintf(`
SELECT node_id, value
FROM %s
WHERE node_id = ANY($1) AND std_measurement_type = $2 AND sampled_at >= $3 AND sampled_at < $4
ORDER BY node_id, sampled_at`, defaultMeasurementsTable)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs, stdMeasurementType, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := make(map[string][]float64, len(nodeIDs))
	for rows.Next() {
		var node string
		var value float64
		if err := rows.Scan(&node, &value); err != nil {
			return nil, err
		}
		samples[node] = append(samples[node], value)
	}
	return samples, rows.Err()
}
