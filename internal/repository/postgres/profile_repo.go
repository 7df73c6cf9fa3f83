package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

// ProfileRepo implements ProfileRepository using PostgreSQL.
type ProfileRepo struct{ db *DB }

// NewProfileRepo constructs a profile repository.
func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

// GetByUserID selects a profile by user id.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	const q = `SELECT user_id, full_name FROM profiles WHERE user_id=$1`
	var (
		p    model.Profile
		name *string
	)
	if err := r.db.Pool.QueryRow(ctx, q, userID).Scan(&p.UserID, &name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if name != nil {
		p.FullName = *name
	}
	return &p, nil
}
