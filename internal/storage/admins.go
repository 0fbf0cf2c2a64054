package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/core/logger"
)

// AdminRepo answers admin identity questions. Root admins come from
// configuration; regular admins live in the database. Admin status is
// looked up fresh on every call, never cached.
type AdminRepo struct {
	db    *sqlx.DB
	roots map[int64]struct{}
}

// NewAdminRepo wraps the database handle with the configured root admin set.
func NewAdminRepo(db *sqlx.DB, rootIDs []int64) *AdminRepo {
	roots := make(map[int64]struct{}, len(rootIDs))
	for _, id := range rootIDs {
		roots[id] = struct{}{}
	}
	return &AdminRepo{db: db, roots: roots}
}

// IsRootAdmin reports whether the chat id is a configured root admin.
func (r *AdminRepo) IsRootAdmin(chatID int64) bool {
	_, ok := r.roots[chatID]
	return ok
}

// IsAdmin reports whether the chat id is a root admin or a stored admin.
func (r *AdminRepo) IsAdmin(ctx context.Context, chatID int64) (bool, error) {
	if r.IsRootAdmin(chatID) {
		return true, nil
	}
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE chat_id = $1)`, chatID)
	if err != nil {
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	return exists, nil
}

// Add stores a new admin. Adding an existing admin is a no-op.
func (r *AdminRepo) Add(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (chat_id) VALUES ($1) ON CONFLICT (chat_id) DO NOTHING`, chatID)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	logger.SVCAdmins.Info("admin added",
		slog.String("event", "admin.add"),
		slog.Int64("chat_id", chatID),
	)
	return nil
}

// Remove deletes a stored admin. Removing an absent admin is a no-op.
func (r *AdminRepo) Remove(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	logger.SVCAdmins.Info("admin removed",
		slog.String("event", "admin.remove"),
		slog.Int64("chat_id", chatID),
	)
	return nil
}

// List returns all stored admin chat ids in insertion order.
func (r *AdminRepo) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `SELECT chat_id FROM admins ORDER BY added_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return ids, nil
}
