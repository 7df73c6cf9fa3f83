package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

func TestShareLinkRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewShareLinkRepo(db)

	l := &model.ShareLink{
		ID:         uuid.Must(uuid.NewV4()),
		DocumentID: uuid.Must(uuid.NewV4()),
		UserID:     uuid.Must(uuid.NewV4()),
		Token:      "tok",
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	mock.ExpectExec(`INSERT INTO share_links`).
		WithArgs(l.ID, l.DocumentID, l.UserID, l.Token, []byte(nil), []byte(nil), l.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Create(context.Background(), l))
}

func TestShareLinkRepo_Create_DuplicateToken(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewShareLinkRepo(db)

	l := &model.ShareLink{
		ID:         uuid.Must(uuid.NewV4()),
		DocumentID: uuid.Must(uuid.NewV4()),
		UserID:     uuid.Must(uuid.NewV4()),
		Token:      "tok",
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	mock.ExpectExec(`INSERT INTO share_links`).
		WithArgs(l.ID, l.DocumentID, l.UserID, l.Token, []byte(nil), []byte(nil), l.ExpiresAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	require.ErrorIs(t, r.Create(context.Background(), l), errs.ErrAlreadyExists)
}

func TestShareLinkRepo_GetByToken_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewShareLinkRepo(db)

	id := uuid.Must(uuid.NewV4())
	docID := uuid.Must(uuid.NewV4())
	userID := uuid.Must(uuid.NewV4())
	now := time.Now()

	mock.ExpectQuery(`FROM share_links WHERE token=\$1`).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "document_id", "user_id", "token", "pin_hash", "pin_salt",
			"expires_at", "is_active", "view_count", "created_at",
		}).AddRow(id, docID, userID, "tok", []byte(nil), []byte(nil),
			now.Add(time.Hour), true, int64(3), now))

	l, err := r.GetByToken(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, docID, l.DocumentID)
	require.True(t, l.IsActive)
	require.Equal(t, int64(3), l.ViewCount)
}

func TestShareLinkRepo_GetByToken_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewShareLinkRepo(db)

	mock.ExpectQuery(`FROM share_links WHERE token=\$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByToken(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestShareLinkRepo_Deactivate_WrongOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewShareLinkRepo(db)

	id := uuid.Must(uuid.NewV4())
	userID := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`UPDATE share_links SET is_active=false`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.ErrorIs(t, r.Deactivate(context.Background(), id, userID), errs.ErrNotFound)
}
