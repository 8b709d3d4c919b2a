package application

import (
	"context"
	"testing"

	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

func TestBuildCommonFields(t *testing.T) {
	columns := []groupstatus.ColumnDescriptor{
		{Name: "Well", SourceType: groupstatus.SourceCommon},
		{Name: "SPM", SourceType: groupstatus.SourceParameter, FieldHeading: "CurrentSPM"},
		{Name: "Pressure", SourceType: groupstatus.SourceFacility},
		{Name: "GasRate", SourceType: groupstatus.SourceParamStandard},
		{Name: "Efficiency", SourceType: groupstatus.SourceFormula},
		{Name: "FacilityTagAlarms", SourceType: groupstatus.SourceCommon},
		{Name: "CameraAlarms", SourceType: groupstatus.SourceCommon},
		{Name: "Comment", SourceType: groupstatus.SourceCommon, FieldHeading: "tblWellDetails.Comment"},
	}
	viewTables := map[string][]string{
		"tblWellDetails": {"Comment", "PumpDepth"},
	}

	fields := BuildCommonFields(columns, viewTables)

	want := []string{"Well", "CurrentSPM", "Pressure", "CameraAlarms", "Comment", "PumpDepth", "CameraAlarmCount", "CameraAlarmState"}
	for _, field := range want {
		if !containsField(fields, field) {
			t.Fatalf("expected field %q in %v", field, fields)
		}
	}
	// formula and param-standard columns contribute no common field
	for _, field := range []string{"GasRate", "Efficiency", "FacilityTagAlarms"} {
		if containsField(fields, field) {
			t.Fatalf("unexpected field %q in %v", field, fields)
		}
	}
	// no duplicates
	seen := make(map[string]int)
	for _, field := range fields {
		seen[field]++
		if seen[field] > 1 {
			t.Fatalf("duplicate field %q", field)
		}
	}
}

func containsField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

func TestSourceNeeds(t *testing.T) {
	standardType := 20
	cases := []struct {
		name    string
		columns []groupstatus.ColumnDescriptor
		want    needs
	}{
		{
			"common only",
			[]groupstatus.ColumnDescriptor{{Name: "Well", SourceType: groupstatus.SourceCommon}},
			needs{},
		},
		{
			"parameter column also needs facility alarms",
			[]groupstatus.ColumnDescriptor{{Name: "SPM", SourceType: groupstatus.SourceParameter}},
			needs{parameter: true, facility: true},
		},
		{
			"facility tag alarms column needs facility",
			[]groupstatus.ColumnDescriptor{{Name: "FacilityTagAlarms", SourceType: groupstatus.SourceCommon}},
			needs{facility: true},
		},
		{
			"param standard",
			[]groupstatus.ColumnDescriptor{{Name: "GasRate", SourceType: groupstatus.SourceParamStandard, ParamStandardType: &standardType}},
			needs{paramStandard: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sourceNeeds(tc.columns); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestFetchSourcesSkipsUnneeded(t *testing.T) {
	fetcher := &countingFetcher{}
	columns := []groupstatus.ColumnDescriptor{
		{Name: "Well", SourceType: groupstatus.SourceCommon},
	}

	_, err := FetchSources(context.Background(), fetcher, []string{"WELL-01"}, columns, nil, "c1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetcher.common != 1 {
		t.Fatalf("common is always fetched, got %d calls", fetcher.common)
	}
	if fetcher.parameters+fetcher.rawScans+fetcher.facility+fetcher.standard != 0 {
		t.Fatal("unneeded sources must not be fetched")
	}
}

func TestFetchSourcesParamStandardKeys(t *testing.T) {
	fetcher := &countingFetcher{}
	typeA, typeB := 20, 21
	columns := []groupstatus.ColumnDescriptor{
		{Name: "Well", SourceType: groupstatus.SourceCommon},
		{Name: "GasRate", SourceType: groupstatus.SourceParamStandard, ParamStandardType: &typeA, FieldHeading: "Gas"},
		{Name: "GasRateDup", SourceType: groupstatus.SourceParamStandard, ParamStandardType: &typeA, FieldHeading: "Gas"},
		{Name: "WaterRate", SourceType: groupstatus.SourceParamStandard, ParamStandardType: &typeB, FieldHeading: "Water"},
	}

	_, err := FetchSources(context.Background(), fetcher, []string{"WELL-01"}, columns, nil, "c1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(fetcher.lastKeys) != 2 {
		t.Fatalf("expected distinct type/field pairs, got %v", fetcher.lastKeys)
	}
}

type countingFetcher struct {
	common     int
	parameters int
	rawScans   int
	facility   int
	standard   int
	lastKeys   []ParamStandardKey
}

func (c *countingFetcher) FetchCommon(ctx context.Context, nodeIDs, fields []string, correlationID string) ([]CommonRecord, error) {
	c.common++
	return nil, nil
}

func (c *countingFetcher) FetchParameters(ctx context.Context, nodeIDs []string, correlationID string) ([]ParameterReading, error) {
	c.parameters++
	return nil, nil
}

func (c *countingFetcher) FetchRawScanData(ctx context.Context, nodeIDs []string, correlationID string) ([]RawScanValue, error) {
	c.rawScans++
	return nil, nil
}

func (c *countingFetcher) FetchFacilityTags(ctx context.Context, nodeIDs []string, correlationID string) ([]groupstatus.FacilityTagReading, error) {
	c.facility++
	return nil, nil
}

func (c *countingFetcher) FetchParamStandardSums(ctx context.Context, nodeIDs []string, keys []ParamStandardKey, correlationID string) ([]ParamStandardValue, error) {
	c.standard++
	c.lastKeys = keys
	return nil, nil
}

func (c *countingFetcher) FetchParamStandardMax(ctx context.Context, nodeIDs []string, keys []ParamStandardKey, correlationID string) ([]ParamStandardValue, error) {
	c.lastKeys = keys
	return nil, nil
}
