package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/momohthinQ/meyone-secure-vault/internal/errs"
	"github.com/momohthinQ/meyone-secure-vault/internal/model"
	"github.com/momohthinQ/meyone-secure-vault/internal/repository"
)

type fakeDocRepo struct {
	byToken  map[string]*model.Document
	byDigest map[string]*model.Document
	digests  map[uuid.UUID][]model.DigestRecord
	err      error
}

var _ repository.DocumentRepository = (*fakeDocRepo)(nil)

func (f *fakeDocRepo) GetByToken(_ context.Context, token string) (*model.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.byToken[token]; ok {
		return d, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeDocRepo) GetByDigest(_ context.Context, hash string) (*model.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.byDigest[hash]; ok {
		return d, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeDocRepo) Digests(_ context.Context, documentID uuid.UUID) ([]model.DigestRecord, error) {
	return append([]model.DigestRecord(nil), f.digests[documentID]...), nil
}

type fakeInstRepo struct {
	byToken      map[string]*model.InstitutionDocument
	byDigest     map[string]*model.InstitutionDocument
	institutions map[uuid.UUID]*model.Institution
	events       int
	eventErr     error
	err          error
}

var _ repository.InstitutionRepository = (*fakeInstRepo)(nil)

func (f *fakeInstRepo) GetDocumentByToken(_ context.Context, token string) (*model.InstitutionDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.byToken[token]; ok {
		return d, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeInstRepo) GetDocumentByDigest(_ context.Context, hash string) (*model.InstitutionDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.byDigest[hash]; ok {
		return d, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeInstRepo) GetInstitution(_ context.Context, id uuid.UUID) (*model.Institution, error) {
	if in, ok := f.institutions[id]; ok {
		return in, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeInstRepo) RecordVerificationEvent(_ context.Context, _, _ uuid.UUID) error {
	f.events++
	return f.eventErr
}

type fakeProfileRepo struct {
	byUser map[uuid.UUID]*model.Profile
}

var _ repository.ProfileRepository = (*fakeProfileRepo)(nil)

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	if p, ok := f.byUser[userID]; ok {
		return p, nil
	}
	return nil, errs.ErrNotFound
}

type fakeLedgerRepo struct {
	entries   []model.LedgerEntry
	appendErr error
}

var _ repository.LedgerRepository = (*fakeLedgerRepo)(nil)

func (f *fakeLedgerRepo) Append(_ context.Context, e model.LedgerEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeLedgerRepo) History(_ context.Context, ref model.LedgerRef, limit int) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].Ref == ref {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

type fakeShareLinkRepo struct {
	byToken   map[string]*model.ShareLink
	created   []*model.ShareLink
	views     map[uuid.UUID]int
	createErr error
}

var _ repository.ShareLinkRepository = (*fakeShareLinkRepo)(nil)

func (f *fakeShareLinkRepo) Create(_ context.Context, l *model.ShareLink) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byToken == nil {
		f.byToken = map[string]*model.ShareLink{}
	}
	f.byToken[l.Token] = l
	f.created = append(f.created, l)
	return nil
}

func (f *fakeShareLinkRepo) GetByToken(_ context.Context, token string) (*model.ShareLink, error) {
	if l, ok := f.byToken[token]; ok {
		return l, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeShareLinkRepo) Deactivate(_ context.Context, id, userID uuid.UUID) error {
	for _, l := range f.byToken {
		if l.ID == id && l.UserID == userID {
			l.IsActive = false
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeShareLinkRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	if f.views == nil {
		f.views = map[uuid.UUID]int{}
	}
	f.views[id]++
	return nil
}
