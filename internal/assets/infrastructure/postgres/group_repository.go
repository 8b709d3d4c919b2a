package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	assets "liftops-cloud/internal/assets/domain"
)

const (
	defaultNodeMasterTable = "node_master"
	defaultMembershipTable = "group_membership"
	defaultHierarchyTable  = "group_hierarchy"
)

// DBTX abstracts *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GroupRepository resolves asset populations from the hierarchy store.
type GroupRepository struct {
	db DBTX
}

// NewGroupRepository constructs a group repository.
func NewGroupRepository(db DBTX) *GroupRepository {
	return &GroupRepository{db: db}
}

// Resolve loads the asset population and child groups for a group name. An
// empty group is a failure at this level, not an empty success.
func (r *GroupRepository) Resolve(ctx context.Context, groupName, correlationID string) (*assets.Group, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("group repo: nil db")
	}
	if groupName == "" {
		return nil, errors.New("group repo: empty group name")
	}

	query := fmt.Sprintf(`
SELECT n.asset_guid, n."Well", n.industry_application_id
FROM %s n
JOIN %s m ON m.node_id = n."Well"
WHERE m.group_name = $1
ORDER BY n."Well"`, defaultNodeMasterTable, defaultMembershipTable)

	rows, err := r.db.QueryContext(ctx, query, groupName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	group := &assets.Group{Name: groupName}
	for rows.Next() {
		var asset assets.Asset
		if err := rows.Scan(&asset.ID, &asset.AssetName, &asset.IndustryApplicationID); err != nil {
			return nil, err
		}
		group.Assets = append(group.Assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(group.Assets) == 0 {
		return nil, assets.ErrNoRecord
	}

	children, err := r.childGroups(ctx, groupName)
	if err != nil {
		return nil, err
	}
	group.ChildGroups = children
	return group, nil
}

func (r *GroupRepository) childGroups(ctx context.Context, groupName string) ([]string, error) {
	query := fmt.Sprintf(`
SELECT child_name
FROM %s
WHERE parent_name = $1
ORDER BY child_name`, defaultHierarchyTable)

	rows, err := r.db.QueryContext(ctx, query, groupName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []string
	for rows.Next() {
		var child string
		if err := rows.Scan(&child); err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, rows.Err()
}
