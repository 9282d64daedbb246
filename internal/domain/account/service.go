package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service is the account directory. Accounts are never updated or deleted.
type Service struct {
	accounts        Repository
	defaultLanguage string
}

// NewService creates the account directory. An empty defaultLanguage
// means "en".
func NewService(accounts Repository, defaultLanguage string) *Service {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	return &Service{accounts: accounts, defaultLanguage: defaultLanguage}
}

// NormalizePhone is the single definition of phone equality: exact match
// on the whitespace-trimmed string.
func NormalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

// Create validates and stores a new account. The phone is trimmed and must
// be unique.
func (s *Service) Create(ctx context.Context, name, phone string, role Role, language string) (*Account, error) {
	name = strings.TrimSpace(name)
	phone = NormalizePhone(phone)
	language = strings.TrimSpace(language)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidAccount)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidAccount)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidAccount, role)
	}
	if language == "" {
		language = s.defaultLanguage
	}

	a := &Account{Name: name, Phone: phone, Role: role, Language: language}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// FindByPhone looks up an account by trimmed phone.
func (s *Service) FindByPhone(ctx context.Context, phone string) (*Account, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil, ErrNotFound
	}
	return s.accounts.GetByPhone(ctx, phone)
}

// FindByID looks up an account by id.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	return s.accounts.GetByID(ctx, id)
}
