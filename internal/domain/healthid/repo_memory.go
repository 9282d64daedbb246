package healthid

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workerhealth/hid/internal/platform/db"
)

type healthIDRepoMemory struct {
	gate      *db.MemTx
	byUUID    map[string]*HealthIdentity
	byAccount map[uuid.UUID]string
}

// NewMemoryRepo returns an identity store guarded by gate.
func NewMemoryRepo(gate *db.MemTx) Repository {
	return &healthIDRepoMemory{
		gate:      gate,
		byUUID:    make(map[string]*HealthIdentity),
		byAccount: make(map[uuid.UUID]string),
	}
}

func (r *healthIDRepoMemory) Create(ctx context.Context, h *HealthIdentity) error {
	defer r.gate.Write(ctx)()

	if _, issued := r.byAccount[h.AccountID]; issued {
		return ErrAlreadyIssued
	}
	h.ID = uuid.New()
	h.IssuedAt = time.Now().UTC()
	stored := *h
	r.byUUID[stored.HealthUUID] = &stored
	r.byAccount[stored.AccountID] = stored.HealthUUID

	db.OnRollback(ctx, func() {
		delete(r.byUUID, stored.HealthUUID)
		delete(r.byAccount, stored.AccountID)
	})
	return nil
}

func (r *healthIDRepoMemory) GetByUUID(ctx context.Context, healthUUID string) (*HealthIdentity, error) {
	defer r.gate.Read(ctx)()

	h, ok := r.byUUID[healthUUID]
	if !ok {
		return nil, ErrUnknownIdentity
	}
	out := *h
	return &out, nil
}

func (r *healthIDRepoMemory) GetByAccount(ctx context.Context, accountID uuid.UUID) (*HealthIdentity, error) {
	defer r.gate.Read(ctx)()

	key, ok := r.byAccount[accountID]
	if !ok {
		return nil, ErrUnknownIdentity
	}
	out := *r.byUUID[key]
	return &out, nil
}
