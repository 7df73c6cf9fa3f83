package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/model"
)

// LedgerRepository provides append-only access to verification history.
// Entries are never updated or deleted.
type LedgerRepository interface {
	// Append inserts one verification record.
	Append(ctx context.Context, e model.LedgerEntry) error

	// History returns up to limit entries for a document, newest first.
	History(ctx context.Context, ref model.LedgerRef, limit int) ([]model.LedgerEntry, error)
}

// ShareLinkRepository manages time-bounded share links for personal documents.
type ShareLinkRepository interface {
	// Create inserts a new share link.
	Create(ctx context.Context, l *model.ShareLink) error

	// GetByToken loads a share link by token (exact match).
	GetByToken(ctx context.Context, token string) (*model.ShareLink, error)

	// Deactivate revokes a link owned by userID.
	Deactivate(ctx context.Context, id, userID uuid.UUID) error

	// IncrementViews bumps the view counter after a successful open.
	IncrementViews(ctx context.Context, id uuid.UUID) error
}
