package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"liftops-cloud/internal/groupstatus/application"
	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

const (
	defaultNodeMasterTable   = "node_master"
	defaultParameterDataView = "current_parameter_data"
	defaultRawScanTable      = "current_raw_scan_data"
	defaultFacilityDataView  = "facility_tag_data"
	defaultParamStandardData = "param_standard_data"
)

// SourceStore issues the five bulk source queries of the view engine.
type SourceStore struct {
	db     DBTX
	logger *log.Logger
}

// NewSourceStore constructs a source store.
func NewSourceStore(db DBTX, logger *log.Logger) *SourceStore {
	return &SourceStore{db: db, logger: logger}
}

// FetchCommon runs the dynamically composed common query and returns one
// key/value record per node.
func (s *SourceStore) FetchCommon(ctx context.Context, nodeIDs []string, fields []string, correlationID string) ([]application.CommonRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("source store: nil db")
	}
	if len(nodeIDs) == 0 || len(fields) == 0 {
		return nil, nil
	}

	selected := make([]string, 0, len(fields))
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		quoted, err := quoteIdentifier(field)
		if err != nil {
			s.logf("source store: skipping field %q: %v [%s]", field, err, correlationID)
			continue
		}
		selected = append(selected, quoted)
		names = append(names, field)
	}
	if len(selected) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE "Well" = ANY($1)`, strings.Join(selected, ", "), defaultNodeMasterTable)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []application.CommonRecord
	for rows.Next() {
		values := make([]any, len(names))
		targets := make([]any, len(names))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		record := make(application.CommonRecord, len(names))
		for i, name := range names {
			record[name] = stringifySQLValue(values[i])
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// FetchParameters returns current parameter readings for the nodes.
func (s *SourceStore) FetchParameters(ctx context.Context, nodeIDs []string, correlationID string) ([]application.ParameterReading, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("source store: nil db")
	}
	if len(nodeIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
SELECT node_id, description, value, text, back_color, fore_color, decimals
FROM %s
WHERE node_id = ANY($1)
ORDER BY node_id, description`, defaultParameterDataView)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []application.ParameterReading
	for rows.Next() {
		var (
			reading   application.ParameterReading
			text      sql.NullString
			backColor sql.NullString
			foreColor sql.NullString
			decimals  sql.NullInt64
		)
		if err := rows.Scan(&reading.NodeID, &reading.Description, &reading.Value, &text, &backColor, &foreColor, &decimals); err != nil {
			return nil, err
		}
		reading.Text = nullableString(text)
		reading.BackColor = nullableString(backColor)
		reading.ForeColor = nullableString(foreColor)
		if decimals.Valid {
			reading.Decimals = int(decimals.Int64)
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}

// FetchRawScanData returns the secondary raw scan strings for the nodes.
func (s *SourceStore) FetchRawScanData(ctx context.Context, nodeIDs []string, correlationID string) ([]application.RawScanValue, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("source store: nil db")
	}
	if len(nodeIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
SELECT node_id, description, string_value
FROM %s
WHERE node_id = ANY($1)`, defaultRawScanTable)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []application.RawScanValue
	for rows.Next() {
		var (
			scan  application.RawScanValue
			value sql.NullString
		)
		if err := rows.Scan(&scan.NodeID, &scan.Description, &value); err != nil {
			return nil, err
		}
		scan.Value = nullableString(value)
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

// FetchFacilityTags returns current facility-tag readings for the nodes, in
// stable reading order.
func (s *SourceStore) FetchFacilityTags(ctx context.Context, nodeIDs []string, correlationID string) ([]groupstatus.FacilityTagReading, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("source store: nil db")
	}
	if len(nodeIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
SELECT node_id, description, std_measurement_type, data_type_id, unit_type_id,
	state_id, alarm_state, alarm_description, current_value, text, back_color, fore_color, decimals
FROM %s
WHERE node_id = ANY($1)
ORDER BY node_id, address`, defaultFacilityDataView)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []groupstatus.FacilityTagReading
	for rows.Next() {
		var (
			reading   groupstatus.FacilityTagReading
			stateID   sql.NullInt64
			alarmDesc sql.NullString
			current   sql.NullString
			text      sql.NullString
			backColor sql.NullString
			foreColor sql.NullString
			decimals  sql.NullInt64
		)
		if err := rows.Scan(
			&reading.NodeID,
			&reading.Description,
			&reading.StdMeasurementType,
			&reading.DataTypeID,
			&reading.UnitType,
			&stateID,
			&reading.AlarmState,
			&alarmDesc,
			&current,
			&text,
			&backColor,
			&foreColor,
			&decimals,
		); err != nil {
			return nil, err
		}
		reading.StateID = nullableInt(stateID)
		reading.AlarmDescription = nullableString(alarmDesc)
		reading.CurrentValue = nullableString(current)
		reading.Text = nullableString(text)
		reading.BackColor = nullableString(backColor)
		reading.ForeColor = nullableString(foreColor)
		if decimals.Valid {
			reading.Decimals = int(decimals.Int64)
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}

// FetchParamStandardSums returns server-side sum aggregates scoped to the
// requested type/field pairs.
func (s *SourceStore) FetchParamStandardSums(ctx context.Context, nodeIDs []string, keys []application.ParamStandardKey, correlationID string) ([]application.ParamStandardValue, error) {
	return s.fetchParamStandard(ctx, "SUM", nodeIDs, keys)
}

// FetchParamStandardMax returns server-side max aggregates scoped to the
// requested type/field pairs.
func (s *SourceStore) FetchParamStandardMax(ctx context.Context, nodeIDs []string, keys []application.ParamStandardKey, correlationID string) ([]application.ParamStandardValue, error) {
	return s.fetchParamStandard(ctx, "MAX", nodeIDs, keys)
}

func (s *SourceStore) fetchParamStandard(ctx context.Context, aggregate string, nodeIDs []string, keys []application.ParamStandardKey) ([]application.ParamStandardValue, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("source store: nil db")
	}
	if len(nodeIDs) == 0 || len(keys) == 0 {
		return nil, nil
	}

	types := make([]int, 0, len(keys))
	for _, key := range keys {
		types = append(types, key.Type)
	}

	query := fmt.Sprintf(`
SELECT node_id, param_standard_type, %s(value)
FROM %s
WHERE node_id = ANY($1) AND param_standard_type = ANY($2)
GROUP BY node_id, param_standard_type`, aggregate, defaultParamStandardData)

	rows, err := s.db.QueryContext(ctx, query, nodeIDs, types)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []application.ParamStandardValue
	for rows.Next() {
		var value application.ParamStandardValue
		if err := rows.Scan(&value.NodeID, &value.ParamStandardType, &value.Value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func (s *SourceStore) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

func stringifySQLValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("01/02/2006 15:04:05")
	default:
		return fmt.Sprint(v)
	}
}
