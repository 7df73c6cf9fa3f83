// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Space identifies which document space a record belongs to.
type Space string

const (
	// SpacePersonal is the space of documents uploaded by individual users.
	SpacePersonal Space = "personal"
	// SpaceInstitution is the space of documents issued by institutions.
	SpaceInstitution Space = "institution"
)

// Document statuses as maintained by the out-of-scope review workflows.
// The verification core reads them verbatim and never transitions them.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
	StatusActive   = "active"
	StatusRevoked  = "revoked"
)

// Document is a personal-space document owned by a single user.
type Document struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	DocumentType string // free-text category
	Status       string // pending | verified | rejected
	QRToken      string // opaque verification token, empty until a link is minted
	CreatedAt    time.Time
}

// DigestRecord is one content digest captured for a personal document.
// Records are append-only; a re-hash adds a record, it never overwrites.
type DigestRecord struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Hash       string // lowercase hex
	Algorithm  string // "sha256"
	CreatedAt  time.Time
}

// InstitutionDocument is issued by an institution to a named recipient.
// Its single digest is captured at issuance.
type InstitutionDocument struct {
	ID                  uuid.UUID
	InstitutionID       uuid.UUID
	DocumentType        string
	BatchName           string // optional batch/year label
	RecipientName       string
	RecipientIdentifier string // optional (matric no, staff id, ...)
	Status              string // active | revoked
	FileHash            string
	QRToken             string
	IssuedAt            time.Time
	CreatedAt           time.Time
}

// Institution is the read-only issuer view the core joins against.
type Institution struct {
	ID              uuid.UUID
	Name            string
	InstitutionType string
	Status          string // pending | approved | suspended | rejected
}

// Profile is the read-only owner view for personal documents.
type Profile struct {
	UserID   uuid.UUID
	FullName string
}

// LedgerRef points a ledger entry at exactly one document in one space.
type LedgerRef struct {
	Space Space
	ID    uuid.UUID
}

// LedgerEntry is one immutable record of a verification attempt.
type LedgerEntry struct {
	ID         uuid.UUID
	Ref        LedgerRef
	Result     string // "valid" | "invalid"
	Hash       string // digest observed at verification time
	VerifierIP string
	UserAgent  string
	VerifiedAt time.Time
}

// VerifierContext carries boundary-supplied provenance for the ledger.
// It is never used for authorization.
type VerifierContext struct {
	IP        string
	UserAgent string
}

// DocumentInfo is the caller-facing provenance block of a positive result.
type DocumentInfo struct {
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Owner        string     `json:"owner"`
	RecipientID  string     `json:"recipientId,omitempty"`
	Issuer       string     `json:"issuer"`
	IssuerType   string     `json:"issuerType,omitempty"`
	IssuerStatus string     `json:"issuerStatus,omitempty"`
	Status       string     `json:"status"`
	IssuedAt     *time.Time `json:"issuedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Hash         string     `json:"hash,omitempty"`
}

// VerificationResult is the outcome of one verification attempt.
// A negative result is a normal outcome, not an error: Hash carries the
// computed digest on content-path misses so callers can display it.
type VerificationResult struct {
	Valid    bool          `json:"valid"`
	Document *DocumentInfo `json:"document,omitempty"`
	Hash     string        `json:"hash,omitempty"`
}

// ShareLink grants time-bounded, optionally PIN-protected access to a
// personal document without authentication.
type ShareLink struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	UserID     uuid.UUID
	Token      string
	PINHash    []byte // nil when the link has no PIN
	PINSalt    []byte
	ExpiresAt  time.Time
	IsActive   bool
	ViewCount  int64
	CreatedAt  time.Time
}
