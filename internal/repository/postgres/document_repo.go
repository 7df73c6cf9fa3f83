package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

// DocumentRepo implements DocumentRepository using PostgreSQL.
type DocumentRepo struct{ db *DB }

// NewDocumentRepo constructs a personal document repository.
func NewDocumentRepo(db *DB) *DocumentRepo { return &DocumentRepo{db: db} }

// GetByToken selects a personal document by verification token.
func (r *DocumentRepo) GetByToken(ctx context.Context, token string) (*model.Document, error) {
	const q = `
SELECT id, user_id, name, document_type, status, qr_token, created_at
FROM documents WHERE qr_token=$1`
	return r.scanDocument(r.db.Pool.QueryRow(ctx, q, token))
}

// GetByDigest selects the personal document owning the newest digest
// record with the given hash. Ties across documents resolve to the most
// recently recorded digest.
func (r *DocumentRepo) GetByDigest(ctx context.Context, hash string) (*model.Document, error) {
	const q = `
SELECT d.id, d.user_id, d.name, d.document_type, d.status, d.qr_token, d.created_at
FROM documents d
JOIN document_hashes h ON h.document_id = d.id
WHERE h.hash=$1
ORDER BY h.created_at DESC
LIMIT 1`
	return r.scanDocument(r.db.Pool.QueryRow(ctx, q, hash))
}

func (r *DocumentRepo) scanDocument(row pgx.Row) (*model.Document, error) {
	var (
		d     model.Document
		token *string
	)
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.DocumentType, &d.Status, &token, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if token != nil {
		d.QRToken = *token
	}
	return &d, nil
}

// Digests returns all digest records of a document, newest first.
func (r *DocumentRepo) Digests(ctx context.Context, documentID uuid.UUID) ([]model.DigestRecord, error) {
	const q = `
SELECT id, document_id, hash, algorithm, created_at
FROM document_hashes
WHERE document_id=$1
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DigestRecord
	for rows.Next() {
		var rec model.DigestRecord
		if err = rows.Scan(&rec.ID, &rec.DocumentID, &rec.Hash, &rec.Algorithm, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
