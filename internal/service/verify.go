// Package service contains application services for document verification
// and share links.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/momohthinQ/meyone-secure-vault/internal/digest"
	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/metrics"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
	"github.com/momohthinQ/meyone-secure-vault/internal/repository"
)

// Resolution is the outcome of resolving a token or digest against both
// document spaces. Exactly one of Document/Institution is set.
type Resolution struct {
	Space       model.Space
	Document    *model.Document
	Institution *model.InstitutionDocument
}

// VerifyService defines the verification engine's entry points.
type VerifyService interface {
	// VerifyByToken resolves a token and returns provenance; a hit
	// appends a ledger entry, a miss does not.
	VerifyByToken(ctx context.Context, token string, vc model.VerifierContext) (model.VerificationResult, error)

	// VerifyByContent hashes r and verifies the digest. The negative
	// result carries the computed digest.
	VerifyByContent(ctx context.Context, r io.Reader, vc model.VerifierContext) (model.VerificationResult, error)

	// VerifyByDigest verifies a precomputed digest (client-side hashing path).
	VerifyByDigest(ctx context.Context, hash string, vc model.VerifierContext) (model.VerificationResult, error)

	// History returns the most recent ledger entries for a document, newest first.
	History(ctx context.Context, ref model.LedgerRef, limit int) ([]model.LedgerEntry, error)
}

// VerifyServiceImpl orchestrates resolution, result assembly and ledger appends.
type VerifyServiceImpl struct {
	docs        repository.DocumentRepository
	insts       repository.InstitutionRepository
	profiles    repository.ProfileRepository
	ledger      repository.LedgerRepository
	log         *zap.Logger
	met         *metrics.Metrics
	historyPage int
}

// NewVerifyService constructs the verification engine with injected stores.
func NewVerifyService(
	docs repository.DocumentRepository,
	insts repository.InstitutionRepository,
	profiles repository.ProfileRepository,
	ledger repository.LedgerRepository,
	log *zap.Logger,
	met *metrics.Metrics,
	historyPage int,
) *VerifyServiceImpl {
	if historyPage <= 0 {
		historyPage = 10
	}
	return &VerifyServiceImpl{
		docs: docs, insts: insts, profiles: profiles, ledger: ledger,
		log: log, met: met, historyPage: historyPage,
	}
}

// resolveToken probes both spaces for a token. Personal space is probed
// first as the common case; the order is not part of the contract. A
// match in both spaces is an integrity fault, never silently resolved.
func (s *VerifyServiceImpl) resolveToken(ctx context.Context, token string) (Resolution, error) {
	doc, err := s.docs.GetByToken(ctx, token)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return Resolution{}, fmt.Errorf("personal lookup: %w", err)
	}
	inst, err := s.insts.GetDocumentByToken(ctx, token)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return Resolution{}, fmt.Errorf("institution lookup: %w", err)
	}
	return s.tagged(doc, inst, "token")
}

// resolveDigest probes both spaces for a content digest.
func (s *VerifyServiceImpl) resolveDigest(ctx context.Context, hash string) (Resolution, error) {
	doc, err := s.docs.GetByDigest(ctx, hash)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return Resolution{}, fmt.Errorf("personal lookup: %w", err)
	}
	inst, err := s.insts.GetDocumentByDigest(ctx, hash)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return Resolution{}, fmt.Errorf("institution lookup: %w", err)
	}
	return s.tagged(doc, inst, "digest")
}

func (s *VerifyServiceImpl) tagged(doc *model.Document, inst *model.InstitutionDocument, kind string) (Resolution, error) {
	switch {
	case doc != nil && inst != nil:
		s.log.Error("resolution matched both document spaces",
			zap.String("kind", kind),
			zap.String("document_id", doc.ID.String()),
			zap.String("institution_document_id", inst.ID.String()),
		)
		s.met.VerificationsTotal.WithLabelValues(kind, metrics.ResultConflict).Inc()
		return Resolution{}, errs.ErrIntegrityConflict
	case doc != nil:
		return Resolution{Space: model.SpacePersonal, Document: doc}, nil
	case inst != nil:
		return Resolution{Space: model.SpaceInstitution, Institution: inst}, nil
	default:
		return Resolution{}, errs.ErrNotFound
	}
}

// VerifyByToken resolves the token and assembles provenance from the
// issuance-time digest. The digest is not recomputed here.
func (s *VerifyServiceImpl) VerifyByToken(ctx context.Context, token string, vc model.VerifierContext) (model.VerificationResult, error) {
	if token == "" {
		return model.VerificationResult{}, errors.New("validation: empty token")
	}
	res, err := s.resolveToken(ctx, token)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.met.VerificationsTotal.WithLabelValues("token", metrics.ResultInvalid).Inc()
			return model.VerificationResult{Valid: false}, errs.ErrNotFound
		}
		if !errors.Is(err, errs.ErrIntegrityConflict) {
			s.met.VerificationsTotal.WithLabelValues("token", metrics.ResultError).Inc()
		}
		return model.VerificationResult{}, err
	}
	return s.finish(ctx, "token", res, "", vc)
}

// VerifyByContent streams r through the hasher and verifies the digest.
func (s *VerifyServiceImpl) VerifyByContent(ctx context.Context, r io.Reader, vc model.VerifierContext) (model.VerificationResult, error) {
	hash, err := digest.Sum(r)
	if err != nil {
		return model.VerificationResult{}, err
	}
	return s.VerifyByDigest(ctx, hash, vc)
}

// VerifyByDigest verifies a precomputed digest against both spaces. The
// negative result carries the digest so callers can display it.
func (s *VerifyServiceImpl) VerifyByDigest(ctx context.Context, hash string, vc model.VerifierContext) (model.VerificationResult, error) {
	if !digest.Valid(hash) {
		return model.VerificationResult{}, fmt.Errorf("validation: malformed digest %q", hash)
	}
	res, err := s.resolveDigest(ctx, hash)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.met.VerificationsTotal.WithLabelValues("digest", metrics.ResultInvalid).Inc()
			return model.VerificationResult{Valid: false, Hash: hash}, errs.ErrNotFound
		}
		if !errors.Is(err, errs.ErrIntegrityConflict) {
			s.met.VerificationsTotal.WithLabelValues("digest", metrics.ResultError).Inc()
		}
		return model.VerificationResult{}, err
	}
	return s.finish(ctx, "digest", res, hash, vc)
}

// finish assembles the positive result and appends the ledger entry.
// observedHash overrides the stored digest on the content path.
func (s *VerifyServiceImpl) finish(ctx context.Context, method string, res Resolution, observedHash string, vc model.VerifierContext) (model.VerificationResult, error) {
	var (
		info model.DocumentInfo
		ref  model.LedgerRef
		err  error
	)
	switch res.Space {
	case model.SpacePersonal:
		info, err = s.personalInfo(ctx, res.Document)
		ref = model.LedgerRef{Space: model.SpacePersonal, ID: res.Document.ID}
	case model.SpaceInstitution:
		info, err = s.institutionInfo(ctx, res.Institution)
		ref = model.LedgerRef{Space: model.SpaceInstitution, ID: res.Institution.ID}
	}
	if err != nil {
		s.met.VerificationsTotal.WithLabelValues(method, metrics.ResultError).Inc()
		return model.VerificationResult{}, err
	}
	if observedHash != "" {
		info.Hash = observedHash
	}

	entry := model.LedgerEntry{
		Ref:        ref,
		Result:     "valid",
		Hash:       info.Hash,
		VerifierIP: vc.IP,
		UserAgent:  vc.UserAgent,
	}
	// The result is already decided; an append failure is surfaced to
	// operations, never to the verifier.
	if aerr := s.ledger.Append(ctx, entry); aerr != nil {
		s.met.LedgerAppendsFailed.Inc()
		s.log.Error("ledger append failed",
			zap.String("space", string(ref.Space)),
			zap.String("document_id", ref.ID.String()),
			zap.Error(aerr),
		)
	}

	if res.Space == model.SpaceInstitution {
		if aerr := s.insts.RecordVerificationEvent(ctx, res.Institution.InstitutionID, res.Institution.ID); aerr != nil {
			s.log.Warn("analytics event failed",
				zap.String("institution_id", res.Institution.InstitutionID.String()),
				zap.Error(aerr),
			)
		}
	}

	s.met.VerificationsTotal.WithLabelValues(method, metrics.ResultValid).Inc()
	return model.VerificationResult{Valid: true, Document: &info, Hash: info.Hash}, nil
}

func (s *VerifyServiceImpl) personalInfo(ctx context.Context, doc *model.Document) (model.DocumentInfo, error) {
	owner := "Unknown"
	if p, err := s.profiles.GetByUserID(ctx, doc.UserID); err == nil && p.FullName != "" {
		owner = p.FullName
	} else if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.DocumentInfo{}, fmt.Errorf("profile lookup: %w", err)
	}

	var hash string
	recs, err := s.docs.Digests(ctx, doc.ID)
	if err != nil {
		return model.DocumentInfo{}, fmt.Errorf("digest lookup: %w", err)
	}
	if len(recs) > 0 {
		hash = recs[0].Hash
	}

	return model.DocumentInfo{
		Title:     doc.Name,
		Type:      doc.DocumentType,
		Owner:     owner,
		Issuer:    "Personal Document",
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
		Hash:      hash,
	}, nil
}

func (s *VerifyServiceImpl) institutionInfo(ctx context.Context, doc *model.InstitutionDocument) (model.DocumentInfo, error) {
	info := model.DocumentInfo{
		Title:       doc.DocumentType + " - " + doc.RecipientName,
		Type:        doc.DocumentType,
		Owner:       doc.RecipientName,
		RecipientID: doc.RecipientIdentifier,
		Issuer:      "Unknown Institution",
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		Hash:        doc.FileHash,
	}
	if !doc.IssuedAt.IsZero() {
		t := doc.IssuedAt
		info.IssuedAt = &t
	}

	// Issuer status is surfaced verbatim; gating on institution approval
	// is the caller's policy decision.
	in, err := s.insts.GetInstitution(ctx, doc.InstitutionID)
	switch {
	case err == nil:
		info.Issuer = in.Name
		info.IssuerType = in.InstitutionType
		info.IssuerStatus = in.Status
	case errors.Is(err, errs.ErrNotFound):
		s.log.Warn("institution missing for issued document",
			zap.String("institution_id", doc.InstitutionID.String()),
			zap.String("institution_document_id", doc.ID.String()),
		)
	default:
		return model.DocumentInfo{}, fmt.Errorf("institution lookup: %w", err)
	}
	return info, nil
}

// History returns recent ledger entries, newest first. The limit is
// capped at the configured page size.
func (s *VerifyServiceImpl) History(ctx context.Context, ref model.LedgerRef, limit int) ([]model.LedgerEntry, error) {
	if ref.Space != model.SpacePersonal && ref.Space != model.SpaceInstitution {
		return nil, fmt.Errorf("validation: unknown space %q", ref.Space)
	}
	if limit <= 0 || limit > s.historyPage {
		limit = s.historyPage
	}
	return s.ledger.History(ctx, ref, limit)
}
