package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workerhealth/hid/internal/platform/db"
)

type notificationRepoPG struct {
	pool *pgxpool.Pool
}

// NewNotificationRepo creates a Postgres-backed notification repository.
func NewNotificationRepo(pool *pgxpool.Pool) Repository {
	return &notificationRepoPG{pool: pool}
}

func (r *notificationRepoPG) conn(ctx context.Context) db.Querier {
	return db.Pick(ctx, r.pool)
}

func (r *notificationRepoPG) Create(ctx context.Context, n *Notification) error {
	n.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO notifications (id, account_id, message, language, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING is_read, created_at`,
		n.ID, n.AccountID, n.Message, n.Language,
	).Scan(&n.IsRead, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("notification create: %w", err)
	}
	return nil
}

func (r *notificationRepoPG) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Notification, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, account_id, message, language, is_read, created_at
		FROM notifications
		WHERE account_id = $1
		ORDER BY seq`, accountID)
	if err != nil {
		return nil, fmt.Errorf("notification list: %w", err)
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Message, &n.Language, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}
