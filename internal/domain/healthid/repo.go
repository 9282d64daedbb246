package healthid

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAlreadyIssued     = errors.New("health id already issued for this account")
	ErrMalformedIdentity = errors.New("malformed health id")
	ErrUnknownIdentity   = errors.New("unknown health id")
)

// Repository persists identities. Create returns ErrAlreadyIssued if the
// account already owns one; the check and insert are atomic.
type Repository interface {
	Create(ctx context.Context, h *HealthIdentity) error
	GetByUUID(ctx context.Context, healthUUID string) (*HealthIdentity, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*HealthIdentity, error)
}
