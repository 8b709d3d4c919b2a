package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	assets "liftops-cloud/internal/assets/domain"
	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

type fakeGroups struct {
	group *assets.Group
	err   error
}

func (f *fakeGroups) Resolve(ctx context.Context, groupName, correlationID string) (*assets.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.group, nil
}

type fakeViews struct {
	columns []RawColumn
	formats []groupstatus.ConditionalFormat
}

func (f *fakeViews) LoadColumns(ctx context.Context, viewID int) ([]RawColumn, error) {
	return f.columns, nil
}

func (f *fakeViews) LoadConditionalFormats(ctx context.Context, viewID int) ([]groupstatus.ConditionalFormat, error) {
	return f.formats, nil
}

func (f *fakeViews) LoadViewTables(ctx context.Context) (map[string][]string, error) {
	return nil, nil
}

func (f *fakeViews) AvailableViews(ctx context.Context, userID string) ([]ViewSummary, error) {
	return []ViewSummary{{ViewID: 1, Name: "Default"}}, nil
}

type fakeMetadata struct{}

func (fakeMetadata) ViewMetadata(ctx context.Context, columnNames []string) (ViewMetadata, error) {
	return testMetadata(), nil
}

type fakeFetcher struct {
	data SourceData
	err  error
}

func (f *fakeFetcher) FetchCommon(ctx context.Context, nodeIDs, fields []string, correlationID string) ([]CommonRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data.Common, nil
}

func (f *fakeFetcher) FetchParameters(ctx context.Context, nodeIDs []string, correlationID string) ([]ParameterReading, error) {
	return f.data.Parameters, f.err
}

func (f *fakeFetcher) FetchRawScanData(ctx context.Context, nodeIDs []string, correlationID string) ([]RawScanValue, error) {
	return f.data.RawScans, f.err
}

func (f *fakeFetcher) FetchFacilityTags(ctx context.Context, nodeIDs []string, correlationID string) ([]groupstatus.FacilityTagReading, error) {
	return f.data.FacilityTags, f.err
}

func (f *fakeFetcher) FetchParamStandardSums(ctx context.Context, nodeIDs []string, keys []ParamStandardKey, correlationID string) ([]ParamStandardValue, error) {
	return f.data.StandardSums, f.err
}

func (f *fakeFetcher) FetchParamStandardMax(ctx context.Context, nodeIDs []string, keys []ParamStandardKey, correlationID string) ([]ParamStandardValue, error) {
	return f.data.StandardMax, f.err
}

type fakeSettings struct{}

func (fakeSettings) TagMatchPolicy(ctx context.Context) int     { return 0 }
func (fakeSettings) ShowValueWithText(ctx context.Context) bool { return false }
func (fakeSettings) AlarmPhrases(ctx context.Context) (string, string) {
	return "High", "Low"
}

func serviceUnderTest(t *testing.T, groups assets.GroupResolver, fetcher SourceFetcher, views ViewStore) *Service {
	t.Helper()
	service, err := NewService(groups, views, fakeMetadata{}, fetcher, fakeSettings{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func serviceFixtures() (*fakeGroups, *fakeFetcher, *fakeViews) {
	assetID := uuid.MustParse("8e0ad4cc-7a5b-4f8e-90a1-3d01f3a3b111")
	groups := &fakeGroups{group: &assets.Group{
		Name: "Field A",
		Assets: []assets.Asset{
			{ID: assetID, AssetName: "WELL-01", IndustryApplicationID: assets.ApplicationRodPump},
		},
	}}
	fetcher := &fakeFetcher{data: *testData()}
	views := &fakeViews{columns: []RawColumn{
		{ColumnID: 1, Name: "Well", SourceID: 0},
		{ColumnID: 2, Name: "SPM", SourceID: 1},
	}}
	return groups, fetcher, views
}

func TestBuildGroupStatusValidation(t *testing.T) {
	groups, fetcher, views := serviceFixtures()
	service := serviceUnderTest(t, groups, fetcher, views)

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"missing correlation", Request{ViewID: 1, GroupName: "Field A"}, groupstatus.ErrMissingCorrelation},
		{"missing view", Request{CorrelationID: "c1", GroupName: "Field A"}, groupstatus.ErrMissingViewID},
		{"missing group", Request{CorrelationID: "c1", ViewID: 1}, groupstatus.ErrMissingGroup},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.BuildGroupStatus(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildGroupStatusAppendsAssetGuid(t *testing.T) {
	groups, fetcher, views := serviceFixtures()
	service := serviceUnderTest(t, groups, fetcher, views)

	grid, err := service.BuildGroupStatus(context.Background(), Request{
		ViewID: 7, GroupName: "Field A", CorrelationID: "c1",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	last := grid.Columns[len(grid.Columns)-1]
	if last.Name != AssetGuidColumn {
		t.Fatalf("expected AssetGuid appended last, got %q", last.Name)
	}
	for _, row := range grid.Rows {
		if len(row.Columns) != len(grid.Columns) {
			t.Fatalf("row has %d cells for %d columns", len(row.Columns), len(grid.Columns))
		}
	}

	matched := grid.Rows[0].Columns[len(grid.Rows[0].Columns)-1]
	if matched.Value != "8e0ad4cc-7a5b-4f8e-90a1-3d01f3a3b111" {
		t.Fatalf("expected resolved guid, got %q", matched.Value)
	}
	// WELL-02 is absent from the asset population: guid stays empty
	unmatched := grid.Rows[1].Columns[len(grid.Rows[1].Columns)-1]
	if unmatched.Value != "" {
		t.Fatalf("expected empty guid for unmatched node, got %q", unmatched.Value)
	}
}

func TestBuildGroupStatusEmptyColumnsIsSuccess(t *testing.T) {
	groups, fetcher, _ := serviceFixtures()
	service := serviceUnderTest(t, groups, fetcher, &fakeViews{})

	grid, err := service.BuildGroupStatus(context.Background(), Request{
		ViewID: 7, GroupName: "Field A", CorrelationID: "c1",
	})
	if err != nil {
		t.Fatalf("expected success with empty payload, got %v", err)
	}
	if len(grid.Columns) != 0 || len(grid.Rows) != 0 {
		t.Fatalf("expected empty grid, got %d columns, %d rows", len(grid.Columns), len(grid.Rows))
	}
}

func TestBuildGroupStatusEmptyGroupFails(t *testing.T) {
	_, fetcher, views := serviceFixtures()
	service := serviceUnderTest(t, &fakeGroups{err: assets.ErrNoRecord}, fetcher, views)

	_, err := service.BuildGroupStatus(context.Background(), Request{
		ViewID: 7, GroupName: "Empty", CorrelationID: "c1",
	})
	if !errors.Is(err, assets.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}

func TestBuildGroupStatusStoreFailurePropagates(t *testing.T) {
	groups, _, views := serviceFixtures()
	storeErr := errors.New("store down")
	service := serviceUnderTest(t, groups, &fakeFetcher{err: storeErr}, views)

	_, err := service.BuildGroupStatus(context.Background(), Request{
		ViewID: 7, GroupName: "Field A", CorrelationID: "c1",
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
