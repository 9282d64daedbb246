package record

import (
	"context"
	"errors"
)

var (
	ErrInvalidFollowUpDate = errors.New("invalid follow-up date")
	ErrNotFound            = errors.New("no medical record found")
)

// Repository is insert-only. History returns at most limit records for
// healthUUID, newest first, ties broken by insertion order (later first).
type Repository interface {
	Insert(ctx context.Context, r *MedicalRecord) error
	Latest(ctx context.Context, healthUUID string) (*MedicalRecord, error)
	History(ctx context.Context, healthUUID string, limit int) ([]*MedicalRecord, error)
}
