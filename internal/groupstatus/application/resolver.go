package application

import (
	"log"
	"strings"

	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

// RawColumn is one per-view column configuration row as stored.
type RawColumn struct {
	ColumnID          int
	Name              string
	Alias             string
	AlignCode         int
	Formula           string
	SourceID          int
	ParamStandardType *int
	FieldHeading      string
	Measure           string
	UnitMeasure       string
	Width             int
	Visible           bool
	Orientation       int
	FormatMask        string
}

// ParameterMeta is per-parameter metadata keyed by parameter description.
type ParameterMeta struct {
	Description string
	DataTypeID  int
	StateID     int
	UnitType    int
	Decimals    int
}

// DataTypeMeta is one row of the data-type table.
type DataTypeMeta struct {
	ID        int
	IsNumeric bool
}

// FacilityTagMeta is declared facility-tag metadata keyed by column name.
type FacilityTagMeta struct {
	Description        string
	UnitType           int
	DataTypeID         int
	StdMeasurementType int
}

// ViewMetadata bundles the supporting lookups column resolution needs.
type ViewMetadata struct {
	Parameters   map[string]ParameterMeta
	DataTypes    map[int]DataTypeMeta
	FacilityTags map[string]FacilityTagMeta
}

// ColumnResolver turns raw view configuration into typed descriptors.
type ColumnResolver struct {
	logger *log.Logger
}

// NewColumnResolver constructs a resolver.
func NewColumnResolver(logger *log.Logger) *ColumnResolver {
	return &ColumnResolver{logger: logger}
}

// Resolve builds one descriptor per raw column. Input order is preserved as
// display order; per-column failures degrade that column to Alpha and never
// abort the rest.
func (r *ColumnResolver) Resolve(raw []RawColumn, meta ViewMetadata, formats []groupstatus.ConditionalFormat) []groupstatus.ColumnDescriptor {
	columns := make([]groupstatus.ColumnDescriptor, 0, len(raw))
	for position, rc := range raw {
		col := groupstatus.ColumnDescriptor{
			ColumnID:     rc.ColumnID,
			Name:         rc.Name,
			Alias:        rc.Alias,
			SourceType:   groupstatus.SourceType(rc.SourceID),
			Position:     position,
			Formula:      rc.Formula,
			FieldHeading: rc.FieldHeading,
			Measure:      rc.Measure,
			UnitMeasure:  rc.UnitMeasure,
			Width:        rc.Width,
			Align:        alignFromCode(rc.AlignCode),
			Visible:      rc.Visible,
			Orientation:  rc.Orientation,
			FormatMask:   rc.FormatMask,
		}
		if !col.SourceType.Valid() {
			r.logf("group status: column %q has unknown source %d, treating as common", rc.Name, rc.SourceID)
			col.SourceType = groupstatus.SourceCommon
		}

		switch col.SourceType {
		case groupstatus.SourceFormula:
			col.DataType = groupstatus.DataTypeNumeric
		case groupstatus.SourceParamStandard:
			col.ParamStandardType = rc.ParamStandardType
			col.DataType = groupstatus.DataTypeNumeric
		case groupstatus.SourceCommon:
			col.DataType = groupstatus.DataTypeAlpha
			if rc.Name == "TIS" {
				col.DataType = groupstatus.DataTypeMinutesHoursDays
			}
		case groupstatus.SourceParameter:
			col.DataType, col.Decimals = r.resolveParameterType(rc.Name, meta)
		case groupstatus.SourceFacility:
			col.DataType = r.resolveFacilityType(rc.Name, meta)
			if tag, ok := meta.FacilityTags[rc.Name]; ok {
				col.StdMeasurementType = tag.StdMeasurementType
			}
		}

		for _, format := range formats {
			if format.ColumnID == col.ColumnID {
				col.ConditionalFormats = append(col.ConditionalFormats, format)
			}
		}
		columns = append(columns, col)
	}
	return columns
}

func (r *ColumnResolver) resolveParameterType(name string, meta ViewMetadata) (groupstatus.DataType, int) {
	param, ok := meta.Parameters[name]
	if !ok {
		r.logf("group status: no parameter metadata for column %q, treating as alpha", name)
		return groupstatus.DataTypeAlpha, 0
	}
	if param.StateID != 0 {
		return groupstatus.DataTypeAlpha, param.Decimals
	}
	if param.UnitType == groupstatus.UnitTypeTimeEnron {
		return groupstatus.DataTypeHoursMinutesSeconds, param.Decimals
	}
	if dt, ok := meta.DataTypes[param.DataTypeID]; ok && dt.IsNumeric {
		return groupstatus.DataTypeNumeric, param.Decimals
	}
	return groupstatus.DataTypeAlpha, param.Decimals
}

func (r *ColumnResolver) resolveFacilityType(name string, meta ViewMetadata) groupstatus.DataType {
	tag, ok := meta.FacilityTags[name]
	if !ok {
		r.logf("group status: no facility tag metadata for column %q, treating as alpha", name)
		return groupstatus.DataTypeAlpha
	}
	switch tag.UnitType {
	case groupstatus.UnitTypeTimeEnron:
		return groupstatus.DataTypeHoursMinutesSeconds
	case groupstatus.UnitTypeDiscrete:
		return groupstatus.DataTypeAlpha
	}
	if dt, ok := meta.DataTypes[tag.DataTypeID]; ok && dt.IsNumeric {
		return groupstatus.DataTypeNumeric
	}
	return groupstatus.DataTypeAlpha
}

func (r *ColumnResolver) logf(format string, args ...any) {
	if r == nil || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func alignFromCode(code int) string {
	switch code {
	case 1:
		return groupstatus.AlignCenter
	case 2:
		return groupstatus.AlignRight
	default:
		return groupstatus.AlignLeft
	}
}

// NormalizeColumnName is the registry key form of a column name.
func NormalizeColumnName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
