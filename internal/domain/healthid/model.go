package healthid

import (
	"time"

	"github.com/google/uuid"
)

// Prefix marks every health identifier.
const Prefix = "HID-"

// HealthIdentity binds one worker account to its durable identifier.
type HealthIdentity struct {
	ID         uuid.UUID `db:"id" json:"id"`
	AccountID  uuid.UUID `db:"account_id" json:"account_id"`
	HealthUUID string    `db:"health_uuid" json:"health_id"`
	IssuedAt   time.Time `db:"issued_at" json:"issued_at"`
}
