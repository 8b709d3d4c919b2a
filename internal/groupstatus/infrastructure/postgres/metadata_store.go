package postgres

import (
	"context"
	"errors"
	"fmt"

	"liftops-cloud/internal/groupstatus/application"
)

const (
	defaultParametersTable   = "parameters"
	defaultDataTypesTable    = "data_types"
	defaultFacilityMetaTable = "facility_tags"
)

// MetadataStore loads parameter and facility-tag metadata for column
// resolution.
type MetadataStore struct {
	db DBTX
}

// NewMetadataStore constructs a metadata store.
func NewMetadataStore(db DBTX) *MetadataStore {
	return &MetadataStore{db: db}
}

// ViewMetadata loads the lookups needed to resolve the named columns.
func (s *MetadataStore) ViewMetadata(ctx context.Context, columnNames []string) (application.ViewMetadata, error) {
	meta := application.ViewMetadata{
		Parameters:   make(map[string]application.ParameterMeta),
		DataTypes:    make(map[int]application.DataTypeMeta),
		FacilityTags: make(map[string]application.FacilityTagMeta),
	}
	if s == nil || s.db == nil {
		return meta, errors.New("metadata store: nil db")
	}

	if err := s.loadParameters(ctx, columnNames, &meta); err != nil {
		return meta, err
	}
	if err := s.loadDataTypes(ctx, &meta); err != nil {
		return meta, err
	}
	if err := s.loadFacilityTags(ctx, columnNames, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

func (s *MetadataStore) loadParameters(ctx context.Context, names []string, meta *application.ViewMetadata) error {
	if len(names) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
SELECT description, data_type_id, state_id, unit_type_id, decimals
FROM %s
WHERE description = ANY($1)`, defaultParametersTable)

	rows, err := s.db.QueryContext(ctx, query, names)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var param application.ParameterMeta
		if err := rows.Scan(&param.Description, &param.DataTypeID, &param.StateID, &param.UnitType, &param.Decimals); err != nil {
			return err
		}
		meta.Parameters[param.Description] = param
	}
	return rows.Err()
}

func (s *MetadataStore) loadDataTypes(ctx context.Context, meta *application.ViewMetadata) error {
	query := fmt.Sprintf(`SELECT data_type_id, is_numeric FROM %s`, defaultDataTypesTable)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var dt application.DataTypeMeta
		if err := rows.Scan(&dt.ID, &dt.IsNumeric); err != nil {
			return err
		}
		meta.DataTypes[dt.ID] = dt
	}
	return rows.Err()
}

func (s *MetadataStore) loadFacilityTags(ctx context.Context, names []string, meta *application.ViewMetadata) error {
	if len(names) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
SELECT DISTINCT description, unit_type_id, data_type_id, std_measurement_type
FROM %s
WHERE description = ANY($1)`, defaultFacilityMetaTable)

	rows, err := s.db.QueryContext(ctx, query, names)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tag application.FacilityTagMeta
		if err := rows.Scan(&tag.Description, &tag.UnitType, &tag.DataTypeID, &tag.StdMeasurementType); err != nil {
			return err
		}
		meta.FacilityTags[tag.Description] = tag
	}
	return rows.Err()
}
