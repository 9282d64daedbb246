package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workerhealth/hid/internal/platform/db"
)

type notificationRepoMemory struct {
	gate      *db.MemTx
	byAccount map[uuid.UUID][]Notification
}

// NewMemoryRepo returns a notification store guarded by gate.
func NewMemoryRepo(gate *db.MemTx) Repository {
	return &notificationRepoMemory{gate: gate, byAccount: make(map[uuid.UUID][]Notification)}
}

func (r *notificationRepoMemory) Create(ctx context.Context, n *Notification) error {
	defer r.gate.Write(ctx)()

	n.ID = uuid.New()
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()
	r.byAccount[n.AccountID] = append(r.byAccount[n.AccountID], *n)

	key := n.AccountID
	db.OnRollback(ctx, func() {
		list := r.byAccount[key]
		r.byAccount[key] = list[:len(list)-1]
	})
	return nil
}

func (r *notificationRepoMemory) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Notification, error) {
	defer r.gate.Read(ctx)()

	list := r.byAccount[accountID]
	out := make([]*Notification, len(list))
	for i := range list {
		n := list[i]
		out[i] = &n
	}
	return out, nil
}
