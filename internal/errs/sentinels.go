// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIntegrityConflict indicates a token or digest matched records in
	// both document spaces. Spaces are disjoint by write-path discipline,
	// so this is a data-integrity fault, never a resolvable ambiguity.
	ErrIntegrityConflict = errors.New("integrity conflict")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., token taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrExpired indicates a share link that is inactive or past its expiry.
	ErrExpired = errors.New("expired")

	// ErrInvalidPIN indicates a share-link PIN mismatch.
	ErrInvalidPIN = errors.New("invalid pin")
)
