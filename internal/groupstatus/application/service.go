package application

import (
	"context"
	"errors"
	"log"

	assets "liftops-cloud/internal/assets/domain"
	groupstatus "liftops-cloud/internal/groupstatus/domain"
)

// AssetGuidColumn is the synthetic column appended last to every grid.
const AssetGuidColumn = "AssetGuid"

// nodeColumnID is the column carrying the node identifier, used to resolve
// the owning asset guid per row.
const nodeColumnID = 1

// ViewSummary names one view available to a user.
type ViewSummary struct {
	ViewID int
	Name   string
}

// ViewStore is the view configuration store contract.
type ViewStore interface {
	LoadColumns(ctx context.Context, viewID int) ([]RawColumn, error)
	LoadConditionalFormats(ctx context.Context, viewID int) ([]groupstatus.ConditionalFormat, error)
	LoadViewTables(ctx context.Context) (map[string][]string, error)
	AvailableViews(ctx context.Context, userID string) ([]ViewSummary, error)
}

// MetadataStore supplies parameter and facility-tag metadata for column
// resolution.
type MetadataStore interface {
	ViewMetadata(ctx context.Context, columnNames []string) (ViewMetadata, error)
}

// SettingsProvider reads the externally owned view-engine settings.
type SettingsProvider interface {
	TagMatchPolicy(ctx context.Context) int
	ShowValueWithText(ctx context.Context) bool
	AlarmPhrases(ctx context.Context) (high, low string)
}

// Request identifies one group status build.
type Request struct {
	ViewID        int
	GroupName     string
	UserID        string
	CorrelationID string
}

// ColumnHeader is one output column of the grid.
type ColumnHeader struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Grid is the produced column/row payload.
type Grid struct {
	Columns []ColumnHeader     `json:"columns"`
	Rows    []*groupstatus.Row `json:"rows"`
}

// Service orchestrates the group status pipeline: resolve population,
// resolve columns, fetch sources, merge, format, and append the asset guid
// column.
type Service struct {
	groups   assets.GroupResolver
	views    ViewStore
	metadata MetadataStore
	fetcher  SourceFetcher
	settings SettingsProvider
	resolver *ColumnResolver
	registry *FormatterRegistry
	logger   *log.Logger
}

// NewService constructs the group status service.
func NewService(groups assets.GroupResolver, views ViewStore, metadata MetadataStore, fetcher SourceFetcher, settings SettingsProvider, logger *log.Logger) (*Service, error) {
	if groups == nil {
		return nil, errors.New("group status: nil group resolver")
	}
	if views == nil {
		return nil, errors.New("group status: nil view store")
	}
	if metadata == nil {
		return nil, errors.New("group status: nil metadata store")
	}
	if fetcher == nil {
		return nil, errors.New("group status: nil source fetcher")
	}
	if settings == nil {
		return nil, errors.New("group status: nil settings provider")
	}
	return &Service{
		groups:   groups,
		views:    views,
		metadata: metadata,
		fetcher:  fetcher,
		settings: settings,
		resolver: NewColumnResolver(logger),
		registry: NewFormatterRegistry(logger),
		logger:   logger,
	}, nil
}

// Registry exposes the formatter registry for per-column overrides.
func (s *Service) Registry() *FormatterRegistry { return s.registry }

// AvailableViews lists the views a user may open.
func (s *Service) AvailableViews(ctx context.Context, userID string) ([]ViewSummary, error) {
	if userID == "" {
		return nil, groupstatus.ErrMissingUserID
	}
	return s.views.AvailableViews(ctx, userID)
}

// BuildGroupStatus runs the full pipeline for one request. Validation
// errors surface before any fetch; empty populations and column sets are
// success with an empty grid.
func (s *Service) BuildGroupStatus(ctx context.Context, req Request) (*Grid, error) {
	if req.CorrelationID == "" {
		return nil, groupstatus.ErrMissingCorrelation
	}
	if req.ViewID == 0 {
		return nil, groupstatus.ErrMissingViewID
	}
	if req.GroupName == "" {
		return nil, groupstatus.ErrMissingGroup
	}

	group, err := s.groups.Resolve(ctx, req.GroupName, req.CorrelationID)
	if err != nil {
		return nil, err
	}

	raw, err := s.views.LoadColumns(ctx, req.ViewID)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return &Grid{Columns: []ColumnHeader{}, Rows: []*groupstatus.Row{}}, nil
	}

	formats, err := s.views.LoadConditionalFormats(ctx, req.ViewID)
	if err != nil {
		return nil, err
	}
	viewTables, err := s.views.LoadViewTables(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, rc := range raw {
		names = append(names, rc.Name)
	}
	meta, err := s.metadata.ViewMetadata(ctx, names)
	if err != nil {
		return nil, err
	}

	columns := s.resolver.Resolve(raw, meta, formats)

	data, err := FetchSources(ctx, s.fetcher, group.NodeIDs(), columns, viewTables, req.CorrelationID)
	if err != nil {
		return nil, err
	}

	high, low := s.settings.AlarmPhrases(ctx)
	merger := NewMerger(MergeSettings{
		TagMatchPolicy:    s.settings.TagMatchPolicy(ctx),
		ShowValueWithText: s.settings.ShowValueWithText(ctx),
		HighAlarmPhrase:   high,
		LowAlarmPhrase:    low,
	}, s.logger)

	rows := merger.Assemble(columns, data)
	s.registry.ApplyFormatting(columns, rows)
	appendAssetGuid(columns, rows, group)

	headers := make([]ColumnHeader, 0, len(columns)+1)
	for _, col := range columns {
		headers = append(headers, ColumnHeader{ID: col.ColumnID, Name: col.DisplayName()})
	}
	headers = append(headers, ColumnHeader{ID: assetGuidColumnID(columns), Name: AssetGuidColumn})

	return &Grid{Columns: headers, Rows: rows}, nil
}

// appendAssetGuid adds the synthetic guid cell to every row, resolved by
// matching the node-id column back to the asset population.
func appendAssetGuid(columns []groupstatus.ColumnDescriptor, rows []*groupstatus.Row, group *assets.Group) {
	guidByNode := make(map[string]string, len(group.Assets))
	for _, asset := range group.Assets {
		guidByNode[asset.AssetName] = asset.ID.String()
	}

	columnID := assetGuidColumnID(columns)
	for _, row := range rows {
		var node string
		if cell := row.Cell(nodeColumnID); cell != nil {
			node = cell.Value
		}
		row.Columns = append(row.Columns, groupstatus.Cell{
			ColumnID: columnID,
			Value:    guidByNode[node],
			Align:    groupstatus.AlignLeft,
		})
	}
}

func assetGuidColumnID(columns []groupstatus.ColumnDescriptor) int {
	max := 0
	for _, col := range columns {
		if col.ColumnID > max {
			max = col.ColumnID
		}
	}
	return max + 1
}
