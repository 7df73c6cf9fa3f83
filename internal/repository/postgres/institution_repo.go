package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

// InstitutionRepo implements InstitutionRepository using PostgreSQL.
type InstitutionRepo struct{ db *DB }

// NewInstitutionRepo constructs an institution repository.
func NewInstitutionRepo(db *DB) *InstitutionRepo { return &InstitutionRepo{db: db} }

const instDocCols = `
SELECT id, institution_id, document_type, batch_name, recipient_name,
       recipient_identifier, status, file_hash, qr_token, issued_at, created_at
FROM institution_documents`

// GetDocumentByToken selects an institution document by verification token.
func (r *InstitutionRepo) GetDocumentByToken(ctx context.Context, token string) (*model.InstitutionDocument, error) {
	return r.scanDocument(r.db.Pool.QueryRow(ctx, instDocCols+` WHERE qr_token=$1`, token))
}

// GetDocumentByDigest selects an institution document by its issuance digest.
func (r *InstitutionRepo) GetDocumentByDigest(ctx context.Context, hash string) (*model.InstitutionDocument, error) {
	const q = instDocCols + ` WHERE file_hash=$1 ORDER BY created_at DESC LIMIT 1`
	return r.scanDocument(r.db.Pool.QueryRow(ctx, q, hash))
}

func (r *InstitutionRepo) scanDocument(row pgx.Row) (*model.InstitutionDocument, error) {
	var (
		d           model.InstitutionDocument
		batch, rcid *string
	)
	err := row.Scan(&d.ID, &d.InstitutionID, &d.DocumentType, &batch, &d.RecipientName,
		&rcid, &d.Status, &d.FileHash, &d.QRToken, &d.IssuedAt, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if batch != nil {
		d.BatchName = *batch
	}
	if rcid != nil {
		d.RecipientIdentifier = *rcid
	}
	return &d, nil
}

// GetInstitution selects an issuer by id.
func (r *InstitutionRepo) GetInstitution(ctx context.Context, id uuid.UUID) (*model.Institution, error) {
	const q = `
SELECT id, name, institution_type, status
FROM institutions WHERE id=$1`
	var in model.Institution
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&in.ID, &in.Name, &in.InstitutionType, &in.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &in, nil
}

// RecordVerificationEvent inserts an institution analytics row for a
// successful verification.
func (r *InstitutionRepo) RecordVerificationEvent(ctx context.Context, institutionID, documentID uuid.UUID) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	const q = `
INSERT INTO institution_analytics (id, institution_id, event_type, document_id)
VALUES ($1, $2, 'document_verification', $3)`
	_, err = r.db.Pool.Exec(ctx, q, id, institutionID, documentID)
	return err
}
