package record

import (
	"context"
	"slices"

	"github.com/workerhealth/hid/internal/platform/db"
)

type recordRepoMemory struct {
	gate   *db.MemTx
	byUUID map[string][]*MedicalRecord
}

// NewMemoryRepo returns a record ledger guarded by gate.
func NewMemoryRepo(gate *db.MemTx) Repository {
	return &recordRepoMemory{gate: gate, byUUID: make(map[string][]*MedicalRecord)}
}

func (r *recordRepoMemory) Insert(ctx context.Context, rec *MedicalRecord) error {
	defer r.gate.Write(ctx)()

	stored := *rec
	if rec.NextVisit != nil {
		nv := *rec.NextVisit
		stored.NextVisit = &nv
	}
	key := stored.HealthUUID
	r.byUUID[key] = append(r.byUUID[key], &stored)

	db.OnRollback(ctx, func() {
		list := r.byUUID[key]
		r.byUUID[key] = list[:len(list)-1]
	})
	return nil
}

func (r *recordRepoMemory) Latest(ctx context.Context, healthUUID string) (*MedicalRecord, error) {
	list, _ := r.History(ctx, healthUUID, 1)
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

func (r *recordRepoMemory) History(ctx context.Context, healthUUID string, limit int) ([]*MedicalRecord, error) {
	defer r.gate.Read(ctx)()

	list := slices.Clone(r.byUUID[healthUUID])
	slices.Reverse(list)
	slices.SortStableFunc(list, func(a, b *MedicalRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(list) > limit {
		list = list[:limit]
	}

	out := make([]*MedicalRecord, len(list))
	for i, rec := range list {
		cp := *rec
		if rec.NextVisit != nil {
			nv := *rec.NextVisit
			cp.NextVisit = &nv
		}
		out[i] = &cp
	}
	return out, nil
}
