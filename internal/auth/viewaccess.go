package auth

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrViewForbidden indicates the view is not granted to the user.
	ErrViewForbidden = errors.New("view not granted to user")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("resource not found")
)

// ViewAccessChecker validates that a user may open a view.
type ViewAccessChecker interface {
	EnsureViewAccess(ctx context.Context, userID string, viewID int) error
}

// ViewChecker checks view grants against the user-view assignments.
type ViewChecker struct {
	db *sql.DB
}

// NewViewChecker constructs a ViewChecker.
func NewViewChecker(db *sql.DB) *ViewChecker {
	if db == nil {
		return nil
	}
	return &ViewChecker{db: db}
}

// EnsureViewAccess verifies the view is assigned to the user.
func (c *ViewChecker) EnsureViewAccess(ctx context.Context, userID string, viewID int) error {
	if c == nil || c.db == nil {
		return nil
	}
	if userID == "" || viewID == 0 {
		return nil
	}
	var granted int
	err := c.db.QueryRowContext(ctx, `
SELECT 1 FROM user_views WHERE user_id = $1 AND view_id = $2`, userID, viewID).Scan(&granted)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrViewForbidden
	}
	return err
}
