package application

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

// FacilityTagAlarmsColumn is the synthetic common column filled from
// facility alarm states rather than a common field.
const FacilityTagAlarmsColumn = "FacilityTagAlarms"

// Supplemental common fields pulled in when their owning column is present.
var supplementalCommonFields = map[string][]string{
	"CAMERAALARMS":     {"CameraAlarmCount", "CameraAlarmState"},
	"OPERATIONALSCORE": {"OperationalScore"},
	"%RT 30D":          {"RuntimeAverage30Day"},
}

// CommonRecord is one key/value record from the common source.
type CommonRecord map[string]string

// ParameterReading is one current parameter value for a node.
type ParameterReading struct {
	NodeID      string
	Description string
	Value       float64
	Text        string
	BackColor   string
	ForeColor   string
	Decimals    int
}

// RawScanValue is the secondary raw scan string for a node parameter.
type RawScanValue struct {
	NodeID      string
	Description string
	Value       string
}

// ParamStandardValue is one server-side aggregate for a node and standard
// measurement type.
type ParamStandardValue struct {
	NodeID            string
	ParamStandardType int
	Value             float64
}

// ParamStandardKey scopes a param-standard fetch.
type ParamStandardKey struct {
	Type  int
	Field string
}

// SourceFetcher is the bulk fetch store contract. Each call takes the node
// population and a correlation id; empty result sets are not errors.
type SourceFetcher interface {
	FetchCommon(ctx context.Context, nodeIDs []string, fields []string, correlationID string) ([]CommonRecord, error)
	FetchParameters(ctx context.Context, nodeIDs []string, correlationID string) ([]ParameterReading, error)
	FetchRawScanData(ctx context.Context, nodeIDs []string, correlationID string) ([]RawScanValue, error)
	FetchFacilityTags(ctx context.Context, nodeIDs []string, correlationID string) ([]groupstatus.FacilityTagReading, error)
	FetchParamStandardSums(ctx context.Context, nodeIDs []string, keys []ParamStandardKey, correlationID string) ([]ParamStandardValue, error)
	FetchParamStandardMax(ctx context.Context, nodeIDs []string, keys []ParamStandardKey, correlationID string) ([]ParamStandardValue, error)
}

// SourceData carries all fetched source results for one view request.
type SourceData struct {
	Common       []CommonRecord
	Parameters   []ParameterReading
	RawScans     []RawScanValue
	FacilityTags []groupstatus.FacilityTagReading
	StandardSums []ParamStandardValue
	StandardMax  []ParamStandardValue
}

// FetchSources issues the bulk queries a column set actually needs. The
// independent fetches run in parallel; the paired fetches (parameter with
// raw scan, param-standard sum with max) stay together.
func FetchSources(ctx context.Context, fetcher SourceFetcher, nodeIDs []string, columns []groupstatus.ColumnDescriptor, viewTables map[string][]string, correlationID string) (*SourceData, error) {
	need := sourceNeeds(columns)
	data := &SourceData{}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		records, err := fetcher.FetchCommon(ctx, nodeIDs, BuildCommonFields(columns, viewTables), correlationID)
		if err != nil {
			return err
		}
		data.Common = records
		return nil
	})

	if need.parameter {
		group.Go(func() error {
			readings, err := fetcher.FetchParameters(ctx, nodeIDs, correlationID)
			if err != nil {
				return err
			}
			scans, err := fetcher.FetchRawScanData(ctx, nodeIDs, correlationID)
			if err != nil {
				return err
			}
			data.Parameters = readings
			data.RawScans = scans
			return nil
		})
	}

	if need.facility {
		group.Go(func() error {
			readings, err := fetcher.FetchFacilityTags(ctx, nodeIDs, correlationID)
			if err != nil {
				return err
			}
			data.FacilityTags = readings
			return nil
		})
	}

	if need.paramStandard {
		keys := paramStandardKeys(columns)
		group.Go(func() error {
			sums, err := fetcher.FetchParamStandardSums(ctx, nodeIDs, keys, correlationID)
			if err != nil {
				return err
			}
			maxes, err := fetcher.FetchParamStandardMax(ctx, nodeIDs, keys, correlationID)
			if err != nil {
				return err
			}
			data.StandardSums = sums
			data.StandardMax = maxes
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

type needs struct {
	parameter     bool
	facility      bool
	paramStandard bool
}

func sourceNeeds(columns []groupstatus.ColumnDescriptor) needs {
	var need needs
	for _, col := range columns {
		switch col.SourceType {
		case groupstatus.SourceParameter:
			need.parameter = true
			// facility alarm data is cross-referenced against parameter
			// columns as well
			need.facility = true
		case groupstatus.SourceFacility:
			need.facility = true
		case groupstatus.SourceParamStandard:
			need.paramStandard = true
		case groupstatus.SourceCommon:
			if strings.EqualFold(col.Name, FacilityTagAlarmsColumn) {
				need.facility = true
			}
		}
	}
	return need
}

func paramStandardKeys(columns []groupstatus.ColumnDescriptor) []ParamStandardKey {
	seen := make(map[ParamStandardKey]struct{})
	var keys []ParamStandardKey
	for _, col := range columns {
		if col.SourceType != groupstatus.SourceParamStandard || col.ParamStandardType == nil {
			continue
		}
		key := ParamStandardKey{Type: *col.ParamStandardType, Field: col.FieldHeading}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// BuildCommonFields composes the common fetch field list: the union of each
// common, parameter, and facility column's backing field, the supplemental
// fields owned by well-known columns, and the field groups of any parent
// table a non-standard column references.
func BuildCommonFields(columns []groupstatus.ColumnDescriptor, viewTables map[string][]string) []string {
	seen := make(map[string]struct{})
	fields := make([]string, 0, len(columns)+1)
	add := func(field string) {
		if field == "" {
			return
		}
		key := strings.ToLower(field)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		fields = append(fields, field)
	}

	add("Well")
	for _, col := range columns {
		switch col.SourceType {
		case groupstatus.SourceCommon, groupstatus.SourceParameter, groupstatus.SourceFacility:
		default:
			continue
		}
		if strings.EqualFold(col.Name, FacilityTagAlarmsColumn) {
			continue
		}
		backing := col.FieldHeading
		if backing == "" {
			backing = col.Name
		}
		if table, field, ok := splitTableField(backing); ok {
			if group, found := viewTables[table]; found {
				for _, grouped := range group {
					add(grouped)
				}
				continue
			}
			add(field)
			continue
		}
		add(backing)
	}
	for _, col := range columns {
		if extra, ok := supplementalCommonFields[NormalizeColumnName(col.Name)]; ok {
			for _, field := range extra {
				add(field)
			}
		}
	}
	return fields
}

func splitTableField(expr string) (table, field string, ok bool) {
	idx := strings.Index(expr, ".")
	if idx <= 0 || idx == len(expr)-1 {
		return "", "", false
	}
	return expr[:idx], expr[idx+1:], true
}
