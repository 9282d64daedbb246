// Package access decides which principal may invoke which operation. It
// holds no state; every decision comes from the policy table below.
package access

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/workerhealth/hid/internal/domain/account"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("operation not permitted")
)

// Operation names a guarded action on the identity, record or
// notification components.
type Operation string

const (
	OpRegisterWorker Operation = "register_worker"

	OpAppendRecord Operation = "append_record"
	OpReadHistory  Operation = "read_history"
	OpReadPatient  Operation = "read_patient"

	OpReadOwnLatest        Operation = "read_own_latest"
	OpReadOwnIdentity      Operation = "read_own_identity"
	OpReadOwnNotifications Operation = "read_own_notifications"
)

// Principal is the authenticated caller.
type Principal struct {
	AccountID uuid.UUID
	Role      account.Role
}

type rule struct {
	ownerOnly bool
}

var policy = map[account.Role]map[Operation]rule{
	account.RoleAdmin: {
		OpRegisterWorker: {},
	},
	account.RoleDoctor: {
		OpAppendRecord: {},
		OpReadHistory:  {},
		OpReadPatient:  {},
	},
	account.RoleWorker: {
		OpReadOwnLatest:        {ownerOnly: true},
		OpReadOwnIdentity:      {ownerOnly: true},
		OpReadOwnNotifications: {ownerOnly: true},
	},
}

// Authorize returns nil when p may perform op. owner is the account that
// owns the target resource; owner-only operations require it to equal
// p.AccountID and are denied when it is nil.
func Authorize(p *Principal, op Operation, owner *uuid.UUID) error {
	if p == nil || p.AccountID == uuid.Nil || !p.Role.Valid() {
		return ErrUnauthenticated
	}
	r, ok := policy[p.Role][op]
	if !ok {
		return fmt.Errorf("%w: %s may not %s", ErrForbidden, p.Role, op)
	}
	if r.ownerOnly && (owner == nil || *owner != p.AccountID) {
		return fmt.Errorf("%w: %s on another account's data", ErrForbidden, op)
	}
	return nil
}
