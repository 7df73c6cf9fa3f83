package postgres

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
)

func TestProfileRepo_GetByUserID_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfileRepo(db)

	userID := uuid.Must(uuid.NewV4())
	name := "Ada Obi"

	mock.ExpectQuery(`FROM profiles WHERE user_id=\$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "full_name"}).AddRow(userID, &name))

	p, err := r.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "Ada Obi", p.FullName)
}

func TestProfileRepo_GetByUserID_NullName(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfileRepo(db)

	userID := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`FROM profiles WHERE user_id=\$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "full_name"}).AddRow(userID, (*string)(nil)))

	p, err := r.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, p.FullName)
}

func TestProfileRepo_GetByUserID_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfileRepo(db)

	userID := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`FROM profiles WHERE user_id=\$1`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByUserID(context.Background(), userID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
