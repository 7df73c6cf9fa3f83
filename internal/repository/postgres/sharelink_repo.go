package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

// ShareLinkRepo implements ShareLinkRepository using PostgreSQL.
type ShareLinkRepo struct{ db *DB }

// NewShareLinkRepo constructs a share link repository.
func NewShareLinkRepo(db *DB) *ShareLinkRepo { return &ShareLinkRepo{db: db} }

// Create inserts a new share link row.
func (r *ShareLinkRepo) Create(ctx context.Context, l *model.ShareLink) error {
	const q = `
INSERT INTO share_links (id, document_id, user_id, token, pin_hash, pin_salt, expires_at, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, true)`
	_, err := r.db.Pool.Exec(ctx, q, l.ID, l.DocumentID, l.UserID, l.Token, l.PINHash, l.PINSalt, l.ExpiresAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByToken selects a share link by token.
func (r *ShareLinkRepo) GetByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	const q = `
SELECT id, document_id, user_id, token, pin_hash, pin_salt, expires_at, is_active, view_count, created_at
FROM share_links WHERE token=$1`
	var l model.ShareLink
	err := r.db.Pool.QueryRow(ctx, q, token).Scan(
		&l.ID, &l.DocumentID, &l.UserID, &l.Token, &l.PINHash, &l.PINSalt,
		&l.ExpiresAt, &l.IsActive, &l.ViewCount, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Deactivate revokes a link; only the owning user may revoke.
func (r *ShareLinkRepo) Deactivate(ctx context.Context, id, userID uuid.UUID) error {
	const q = `UPDATE share_links SET is_active=false WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter.
func (r *ShareLinkRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE share_links SET view_count = view_count + 1 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}
