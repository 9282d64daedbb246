package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores notifications. ListByAccount returns them in
// insertion order.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Notification, error)
}
