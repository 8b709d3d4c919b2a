package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	rollup "liftops-cloud/internal/rollup/domain"
)

const (
	defaultClassificationsTable = "node_classifications"
	defaultActiveAlarmsTable    = "active_alarms"
	defaultNodeMasterTable      = "node_master"
)

// EventStore reads classification, alarm, and run-status state.
type EventStore struct {
	db DBTX
}

// NewEventStore constructs an event store.
func NewEventStore(db DBTX) *EventStore {
	return &EventStore{db: db}
}

// ClassificationCounts groups the population by classification.
func (s *EventStore) ClassificationCounts(ctx context.Context, nodeIDs []string) ([]rollup.ClassificationCount, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("event store: nil db")
	}
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
SELECT classification, MIN(priority), COUNT(*)
FROM %s
WHERE node_id = ANY($1)
GROUP BY classification`, defaultClassificationsTable)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []rollup.ClassificationCount
	for rows.Next() {
		var count rollup.ClassificationCount
		if err := rows.Scan(&count.Name, &count.Priority, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

// AlarmCounts groups the population's active alarms by description.
func (s *EventStore) AlarmCounts(ctx context.Context, nodeIDs []string) ([]rollup.AlarmCount, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("event store: nil db")
	}
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
SELECT alarm_description, COUNT(*)
FROM %s
WHERE node_id = ANY($1)
GROUP BY alarm_description`, defaultActiveAlarmsTable)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []rollup.AlarmCount
	for rows.Next() {
		var count rollup.AlarmCount
		if err := rows.Scan(&count.Description, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

// RunStatuses loads the current run-status text per node. Nodes with no
// run status are omitted.
func (s *EventStore) RunStatuses(ctx context.Context, nodeIDs []string) (map[string]string, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("event store: nil db")
	}
	if len(nodeIDs) == 0 {
		return map[string]string{}, nil
	}
	query := fmt.Sprintf(`
SELECT "Well", run_status
FROM %s
WHERE "Well" = ANY($1)`, defaultNodeMasterTable)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(map[string]string, len(nodeIDs))
	for rows.Next() {
		var node string
		var status sql.NullString
		if err := rows.Scan(&node, &status); err != nil {
			return nil, err
		}
		if status.Valid {
			statuses[node] = status.String
		}
	}
	return statuses, rows.Err()
}
