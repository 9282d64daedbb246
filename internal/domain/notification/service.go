package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/workerhealth/hid/internal/domain/account"
	"github.com/workerhealth/hid/internal/domain/healthid"
	"github.com/workerhealth/hid/internal/domain/record"
	"github.com/workerhealth/hid/internal/platform/locale"
)

// Localizer renders a message template for a locale.
type Localizer interface {
	Localize(key, locale string, params map[string]string) string
}

// IdentityResolver maps a health identifier to its owning account.
type IdentityResolver interface {
	ResolveByUUID(ctx context.Context, hid string) (*healthid.HealthIdentity, error)
}

// AccountFinder loads an account by id.
type AccountFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// Service is the notification dispatcher.
type Service struct {
	notifications Repository
	identities    IdentityResolver
	accounts      AccountFinder
	localizer     Localizer
	onCreate      func()
}

// Option configures a Service.
type Option func(*Service)

// WithCreateHook registers a callback run after each stored notification.
func WithCreateHook(fn func()) Option {
	return func(s *Service) { s.onCreate = fn }
}

// NewService creates a dispatcher rendering messages through localizer.
func NewService(notifications Repository, identities IdentityResolver, accounts AccountFinder, localizer Localizer, opts ...Option) *Service {
	s := &Service{
		notifications: notifications,
		identities:    identities,
		accounts:      accounts,
		localizer:     localizer,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// MaybeNotify stores a follow-up reminder for the owner of rec. A record
// without a follow-up date produces nothing and returns (nil, nil).
func (s *Service) MaybeNotify(ctx context.Context, rec *record.MedicalRecord) (*Notification, error) {
	if !rec.HasFollowUp() {
		return nil, nil
	}

	h, err := s.identities.ResolveByUUID(ctx, rec.HealthUUID)
	if err != nil {
		return nil, fmt.Errorf("resolve record owner: %w", err)
	}
	owner, err := s.accounts.FindByID(ctx, h.AccountID)
	if err != nil {
		return nil, fmt.Errorf("load record owner: %w", err)
	}

	n := &Notification{
		AccountID: owner.ID,
		Language:  owner.Language,
		Message: s.localizer.Localize(locale.KeyFollowUp, owner.Language, map[string]string{
			"date": *rec.NextVisit,
		}),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	if s.onCreate != nil {
		s.onCreate()
	}
	return n, nil
}

// ListFor returns the account's notifications in insertion order.
func (s *Service) ListFor(ctx context.Context, accountID uuid.UUID) ([]*Notification, error) {
	list, err := s.notifications.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Notification{}
	}
	return list, nil
}
