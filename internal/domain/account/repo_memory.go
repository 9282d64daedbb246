package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workerhealth/hid/internal/platform/db"
)

type accountRepoMemory struct {
	gate    *db.MemTx
	byID    map[uuid.UUID]*Account
	byPhone map[string]uuid.UUID
}

// NewMemoryRepo returns a Repository backed by maps. All memory
// repositories sharing gate take part in the same transactions.
func NewMemoryRepo(gate *db.MemTx) Repository {
	return &accountRepoMemory{
		gate:    gate,
		byID:    make(map[uuid.UUID]*Account),
		byPhone: make(map[string]uuid.UUID),
	}
}

func (r *accountRepoMemory) Create(ctx context.Context, a *Account) error {
	defer r.gate.Write(ctx)()

	if _, taken := r.byPhone[a.Phone]; taken {
		return ErrDuplicatePhone
	}

	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	stored := *a
	r.byID[a.ID] = &stored
	r.byPhone[a.Phone] = a.ID

	db.OnRollback(ctx, func() {
		delete(r.byID, stored.ID)
		delete(r.byPhone, stored.Phone)
	})
	return nil
}

func (r *accountRepoMemory) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	defer r.gate.Read(ctx)()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *accountRepoMemory) GetByPhone(ctx context.Context, phone string) (*Account, error) {
	defer r.gate.Read(ctx)()

	id, ok := r.byPhone[phone]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r.byID[id]
	return &out, nil
}
