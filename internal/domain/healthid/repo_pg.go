package healthid

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workerhealth/hid/internal/platform/db"
)

type healthIDRepoPG struct {
	pool *pgxpool.Pool
}

// NewHealthIDRepo creates a Postgres-backed identity repository.
func NewHealthIDRepo(pool *pgxpool.Pool) Repository {
	return &healthIDRepoPG{pool: pool}
}

func (r *healthIDRepoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

const healthIDCols = `id, account_id, health_uuid, issued_at`

func (r *healthIDRepoPG) Create(ctx context.Context, h *HealthIdentity) error {
	h.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_identities (id, account_id, health_uuid)
		VALUES ($1, $2, $3)
		RETURNING issued_at`,
		h.ID, h.AccountID, h.HealthUUID,
	).Scan(&h.IssuedAt)
	if err != nil {
		if db.ConstraintViolated(err, db.UniqueViolation, "health_identities_account_key") {
			return ErrAlreadyIssued
		}
		return fmt.Errorf("health id create: %w", err)
	}
	return nil
}

func (r *healthIDRepoPG) GetByUUID(ctx context.Context, healthUUID string) (*HealthIdentity, error) {
	return scanHealthID(r.conn(ctx).QueryRow(ctx,
		`SELECT `+healthIDCols+` FROM health_identities WHERE health_uuid = $1`, healthUUID))
}

func (r *healthIDRepoPG) GetByAccount(ctx context.Context, accountID uuid.UUID) (*HealthIdentity, error) {
	return scanHealthID(r.conn(ctx).QueryRow(ctx,
		`SELECT `+healthIDCols+` FROM health_identities WHERE account_id = $1`, accountID))
}

func scanHealthID(row pgx.Row) (*HealthIdentity, error) {
	var h HealthIdentity
	if err := row.Scan(&h.ID, &h.AccountID, &h.HealthUUID, &h.IssuedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}
	return &h, nil
}
