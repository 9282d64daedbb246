package healthid

import (
	"context"

	"github.com/google/uuid"
)

// Service is the identity registry.
type Service struct {
	ids   Repository
	mint  func() string
	onNew func()
}

// Option customizes a Service.
type Option func(*Service)

// WithMinter replaces the identifier generator.
func WithMinter(mint func() string) Option {
	return func(s *Service) { s.mint = mint }
}

// WithIssueHook registers a callback run after each successful issue.
func WithIssueHook(fn func()) Option {
	return func(s *Service) { s.onNew = fn }
}

// NewService creates an identity registry over ids.
func NewService(ids Repository, opts ...Option) *Service {
	s := &Service{ids: ids, mint: New}
	for _, o := range opts {
		o(s)
	}
	return s
}

// IssueForWorker mints an identifier for accountID. The caller guarantees
// the account exists and has the worker role; enrollment runs this inside
// the same transaction that created the account.
func (s *Service) IssueForWorker(ctx context.Context, accountID uuid.UUID) (*HealthIdentity, error) {
	h := &HealthIdentity{AccountID: accountID, HealthUUID: s.mint()}
	if err := s.ids.Create(ctx, h); err != nil {
		return nil, err
	}
	if s.onNew != nil {
		s.onNew()
	}
	return h, nil
}

// ResolveByUUID validates hid and looks it up.
func (s *Service) ResolveByUUID(ctx context.Context, hid string) (*HealthIdentity, error) {
	canonical, err := Parse(hid)
	if err != nil {
		return nil, err
	}
	return s.ids.GetByUUID(ctx, canonical)
}

// ResolveByAccount returns the identity issued to the account.
func (s *Service) ResolveByAccount(ctx context.Context, accountID uuid.UUID) (*HealthIdentity, error) {
	return s.ids.GetByAccount(ctx, accountID)
}
