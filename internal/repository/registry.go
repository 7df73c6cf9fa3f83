// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

// DocumentRepository provides read access to the personal document space.
// Digest and token writes belong to the upload flow; this core only reads.
type DocumentRepository interface {
	// GetByToken loads a personal document by its verification token (exact match).
	GetByToken(ctx context.Context, token string) (*model.Document, error)

	// GetByDigest loads the personal document owning a digest record with
	// the given hash. When several documents carry the same hash the most
	// recently recorded match wins.
	GetByDigest(ctx context.Context, hash string) (*model.Document, error)

	// Digests returns all digest records of a document, newest first.
	// Records are append-only and written by the upload flow, not here.
	Digests(ctx context.Context, documentID uuid.UUID) ([]model.DigestRecord, error)
}

// InstitutionRepository provides read access to the institution document
// space and its issuer records.
type InstitutionRepository interface {
	// GetDocumentByToken loads an institution document by its verification token.
	GetDocumentByToken(ctx context.Context, token string) (*model.InstitutionDocument, error)

	// GetDocumentByDigest loads an institution document by its issuance digest.
	GetDocumentByDigest(ctx context.Context, hash string) (*model.InstitutionDocument, error)

	// GetInstitution loads an issuer by id.
	GetInstitution(ctx context.Context, id uuid.UUID) (*model.Institution, error)

	// RecordVerificationEvent stores an analytics event for a successful
	// verification of an institution document. Best-effort from the
	// caller's point of view.
	RecordVerificationEvent(ctx context.Context, institutionID, documentID uuid.UUID) error
}

// ProfileRepository resolves document owners to display names.
type ProfileRepository interface {
	// GetByUserID loads the profile of a user by id.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
}
