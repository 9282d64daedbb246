package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a stored message for one account. Only IsRead may ever
// change after creation, and nothing in this service changes it yet.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	Message   string    `db:"message" json:"message"`
	Language  string    `db:"language" json:"language"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
