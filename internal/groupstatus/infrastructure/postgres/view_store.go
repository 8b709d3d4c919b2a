package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"liftops-cloud/internal/groupstatus/application"
	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

const (
	defaultColumnsTable    = "group_status_columns"
	defaultFormatsTable    = "group_status_formats"
	defaultViewTablesTable = "group_status_view_tables"
	defaultViewsTable      = "group_status_views"
	defaultUserViewsTable  = "group_status_user_views"
)

// ViewStore loads per-view column configuration from Postgres.
type ViewStore struct {
	db DBTX
}

// NewViewStore constructs a view store.
func NewViewStore(db DBTX) *ViewStore {
	return &ViewStore{db: db}
}

// LoadColumns returns the raw column rows of a view, in display order.
func (s *ViewStore) LoadColumns(ctx context.Context, viewID int) ([]application.RawColumn, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("view store: nil db")
	}
	if viewID <= 0 {
		return nil, errors.New("view store: invalid view id")
	}

	query := fmt.Sprintf(`
SELECT column_id, name, alias, align, formula, source_id, param_standard_type,
	field_heading, measure, unit_measure, width, visible, orientation, format_mask
FROM %s
WHERE view_id = $1
ORDER BY position`, defaultColumnsTable)

	rows, err := s.db.QueryContext(ctx, query, viewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []application.RawColumn
	for rows.Next() {
		var (
			col          application.RawColumn
			alias        sql.NullString
			formula      sql.NullString
			standardType sql.NullInt64
			fieldHeading sql.NullString
			measure      sql.NullString
			unitMeasure  sql.NullString
			formatMask   sql.NullString
		)
		if err := rows.Scan(
			&col.ColumnID,
			&col.Name,
			&alias,
			&col.AlignCode,
			&formula,
			&col.SourceID,
			&standardType,
			&fieldHeading,
			&measure,
			&unitMeasure,
			&col.Width,
			&col.Visible,
			&col.Orientation,
			&formatMask,
		); err != nil {
			return nil, err
		}
		col.Alias = nullableString(alias)
		col.Formula = nullableString(formula)
		col.ParamStandardType = nullableInt(standardType)
		col.FieldHeading = nullableString(fieldHeading)
		col.Measure = nullableString(measure)
		col.UnitMeasure = nullableString(unitMeasure)
		col.FormatMask = nullableString(formatMask)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// LoadConditionalFormats returns the view's full rule set in priority order.
func (s *ViewStore) LoadConditionalFormats(ctx context.Context, viewID int) ([]groupstatus.ConditionalFormat, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("view store: nil db")
	}

	query := fmt.Sprintf(`
SELECT column_id, operator, value, min_value, max_value, string_value, back_color, fore_color
FROM %s
WHERE view_id = $1
ORDER BY column_id, priority`, defaultFormatsTable)

	rows, err := s.db.QueryContext(ctx, query, viewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var formats []groupstatus.ConditionalFormat
	for rows.Next() {
		var (
			format      groupstatus.ConditionalFormat
			operator    int
			value       sql.NullFloat64
			minValue    sql.NullFloat64
			maxValue    sql.NullFloat64
			stringValue sql.NullString
			backColor   sql.NullString
			foreColor   sql.NullString
		)
		if err := rows.Scan(&format.ColumnID, &operator, &value, &minValue, &maxValue, &stringValue, &backColor, &foreColor); err != nil {
			return nil, err
		}
		format.Operator = groupstatus.FormatOperator(operator)
		format.Value = value.Float64
		format.MinValue = minValue.Float64
		format.MaxValue = maxValue.Float64
		format.StringValue = nullableString(stringValue)
		format.BackColor = nullableString(backColor)
		format.ForeColor = nullableString(foreColor)
		formats = append(formats, format)
	}
	return formats, rows.Err()
}

// LoadViewTables returns parent-table field groups keyed by table name.
func (s *ViewStore) LoadViewTables(ctx context.Context) (map[string][]string, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("view store: nil db")
	}

	query := fmt.Sprintf(`
SELECT table_name, field_name
FROM %s
ORDER BY table_name, position`, defaultViewTablesTable)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make(map[string][]string)
	for rows.Next() {
		var table, field string
		if err := rows.Scan(&table, &field); err != nil {
			return nil, err
		}
		tables[table] = append(tables[table], field)
	}
	return tables, rows.Err()
}

// AvailableViews lists the views assigned to a user.
func (s *ViewStore) AvailableViews(ctx context.Context, userID string) ([]application.ViewSummary, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("view store: nil db")
	}
	if userID == "" {
		return nil, errors.New("view store: empty user id")
	}

	query := fmt.Sprintf(`
SELECT v.view_id, v.name
FROM %s v
JOIN %s uv ON uv.view_id = v.view_id
WHERE uv.user_id = $1
ORDER BY v.name`, defaultViewsTable, defaultUserViewsTable)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []application.ViewSummary
	for rows.Next() {
		var view application.ViewSummary
		if err := rows.Scan(&view.ViewID, &view.Name); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}
