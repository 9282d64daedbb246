package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workerhealth/hid/internal/domain/healthid"
	"github.com/workerhealth/hid/internal/platform/db"
)

type recordRepoPG struct {
	pool *pgxpool.Pool
}

// NewRecordRepo creates a Postgres-backed record repository.
func NewRecordRepo(pool *pgxpool.Pool) Repository {
	return &recordRepoPG{pool: pool}
}

func (r *recordRepoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

const recordCols = `id, health_uuid, diagnosis, prescription, blood_group, blood_summary,
	injuries, allergies, remarks, next_visit, doctor_id, created_at`

func (r *recordRepoPG) Insert(ctx context.Context, rec *MedicalRecord) error {
	nextVisit, err := toDate(rec.NextVisit)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_records (`+recordCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.HealthUUID, rec.Diagnosis, rec.Prescription, rec.BloodGroup, rec.BloodSummary,
		rec.Injuries, rec.Allergies, rec.Remarks, nextVisit, rec.DoctorID, rec.CreatedAt,
	)
	if err != nil {
		if db.ConstraintViolated(err, db.ForeignKeyViolation, "medical_records_health_uuid_fkey") {
			return healthid.ErrUnknownIdentity
		}
		return fmt.Errorf("record insert: %w", err)
	}
	return nil
}

func (r *recordRepoPG) Latest(ctx context.Context, healthUUID string) (*MedicalRecord, error) {
	rec, err := scanRecord(r.conn(ctx).QueryRow(ctx, `
		SELECT `+recordCols+` FROM medical_records
		WHERE health_uuid = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`, healthUUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *recordRepoPG) History(ctx context.Context, healthUUID string, limit int) ([]*MedicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+` FROM medical_records
		WHERE health_uuid = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2`, healthUUID, limit)
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	defer rows.Close()

	var out []*MedicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var rec MedicalRecord
	var nextVisit *time.Time
	err := row.Scan(&rec.ID, &rec.HealthUUID, &rec.Diagnosis, &rec.Prescription, &rec.BloodGroup,
		&rec.BloodSummary, &rec.Injuries, &rec.Allergies, &rec.Remarks, &nextVisit, &rec.DoctorID, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if nextVisit != nil {
		s := nextVisit.Format(DateLayout)
		rec.NextVisit = &s
	}
	return &rec, nil
}

func toDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFollowUpDate, err)
	}
	return &d, nil
}
