package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDuplicatePhone = errors.New("an account with this phone already exists")
	ErrNotFound       = errors.New("account not found")
	ErrInvalidAccount = errors.New("invalid account")
)

// Repository persists accounts. Create must fail with ErrDuplicatePhone
// when the phone is taken, atomically with respect to concurrent creates.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByPhone(ctx context.Context, phone string) (*Account, error)
}
