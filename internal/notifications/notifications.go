package notifications

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Notification is one operator-facing notification tied to an asset.
type Notification struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"assetId"`
	NodeID    string    `json:"nodeId"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store reads notifications.
type Store struct {
	db *sql.DB
}

// NewStore constructs a notification store.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("notifications: nil db")
	}
	return &Store{db: db}, nil
}

// ListByAsset returns the notifications for one asset, newest first.
func (s *Store) ListByAsset(ctx context.Context, assetID string) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, asset_id, node_id, subject, body, severity, created_at
FROM notifications
WHERE asset_id = $1
ORDER BY created_at DESC`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.AssetID, &n.NodeID, &n.Subject, &n.Body, &n.Severity, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.CreatedAt = n.CreatedAt.UTC()
		list = append(list, n)
	}
	return list, rows.Err()
}
