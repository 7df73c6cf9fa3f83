package postgres

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

// LedgerRepo implements LedgerRepository using PostgreSQL.
// verification_logs is append-only: no update or delete statement exists
// in this package.
type LedgerRepo struct{ db *DB }

// NewLedgerRepo constructs a verification ledger repository.
func NewLedgerRepo(db *DB) *LedgerRepo { return &LedgerRepo{db: db} }

// Append inserts one verification record referencing exactly one document.
func (r *LedgerRepo) Append(ctx context.Context, e model.LedgerEntry) error {
	id := e.ID
	if id == uuid.Nil {
		var err error
		if id, err = uuid.NewV4(); err != nil {
			return err
		}
	}

	var docID, instDocID *uuid.UUID
	switch e.Ref.Space {
	case model.SpacePersonal:
		docID = &e.Ref.ID
	case model.SpaceInstitution:
		instDocID = &e.Ref.ID
	default:
		return fmt.Errorf("ledger append: unknown space %q", e.Ref.Space)
	}

	const q = `
INSERT INTO verification_logs
  (id, document_id, institution_document_id, verification_result,
   document_hash_at_verification, verifier_ip, verifier_user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, id, docID, instDocID, e.Result, e.Hash, e.VerifierIP, e.UserAgent)
	return err
}

// History returns up to limit entries for a document, newest first.
func (r *LedgerRepo) History(ctx context.Context, ref model.LedgerRef, limit int) ([]model.LedgerEntry, error) {
	var col string
	switch ref.Space {
	case model.SpacePersonal:
		col = "document_id"
	case model.SpaceInstitution:
		col = "institution_document_id"
	default:
		return nil, fmt.Errorf("ledger history: unknown space %q", ref.Space)
	}

	q := fmt.Sprintf(`
SELECT id, verification_result, document_hash_at_verification,
       verifier_ip, verifier_user_agent, verified_at
FROM verification_logs
WHERE %s=$1
ORDER BY verified_at DESC, id DESC
LIMIT $2`, col)

	rows, err := r.db.Pool.Query(ctx, q, ref.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		e := model.LedgerEntry{Ref: ref}
		var hash *string
		if err = rows.Scan(&e.ID, &e.Result, &hash, &e.VerifierIP, &e.UserAgent, &e.VerifiedAt); err != nil {
			return nil, err
		}
		if hash != nil {
			e.Hash = *hash
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
