package account

import (
	"time"

	"github.com/google/uuid"
)

// Role is the fixed set of principals the service knows about.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
	RoleWorker Role = "worker"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleWorker:
		return true
	}
	return false
}

// Account is a write-once directory entry. Phone is the login key and is
// stored trimmed.
type Account struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Role      Role      `db:"role" json:"role"`
	Language  string    `db:"language" json:"language"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
