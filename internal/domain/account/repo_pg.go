package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workerhealth/hid/internal/platform/db"
)

type accountRepoPG struct {
	pool *pgxpool.Pool
}

// NewAccountRepo creates a Postgres-backed account repository.
func NewAccountRepo(pool *pgxpool.Pool) Repository {
	return &accountRepoPG{pool: pool}
}

func (r *accountRepoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

const accountCols = `id, name, phone, role, language, created_at`

func (r *accountRepoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO accounts (id, name, phone, role, language)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		a.ID, a.Name, a.Phone, string(a.Role), a.Language,
	).Scan(&a.CreatedAt)
	if err != nil {
		if db.ConstraintViolated(err, db.UniqueViolation, "accounts_phone_key") {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("account create: %w", err)
	}
	return nil
}

func (r *accountRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE id = $1`, id))
}

func (r *accountRepoPG) GetByPhone(ctx context.Context, phone string) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE phone = $1`, phone))
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	var role string
	err := row.Scan(&a.ID, &a.Name, &a.Phone, &role, &a.Language, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Role = Role(role)
	return &a, nil
}
