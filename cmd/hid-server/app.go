package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/workerhealth/hid/internal/config"
	"github.com/workerhealth/hid/internal/domain/account"
	"github.com/workerhealth/hid/internal/domain/healthid"
	"github.com/workerhealth/hid/internal/domain/notification"
	"github.com/workerhealth/hid/internal/domain/portal"
	"github.com/workerhealth/hid/internal/domain/record"
	"github.com/workerhealth/hid/internal/platform/auth"
	"github.com/workerhealth/hid/internal/platform/db"
	"github.com/workerhealth/hid/internal/platform/locale"
	"github.com/workerhealth/hid/internal/platform/metrics"
)

// app holds the wired components for one storage backend. pool is nil
// for the memory backend.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
	tokens  *auth.Tokens
	portal  *portal.Service
}

type repos struct {
	tx            db.TxRunner
	accounts      account.Repository
	identities    healthid.Repository
	records       record.Repository
	notifications notification.Repository
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	var r repos
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.pool = pool
		r = repos{
			tx:            db.NewPoolTxRunner(pool),
			accounts:      account.NewAccountRepo(pool),
			identities:    healthid.NewHealthIDRepo(pool),
			records:       record.NewRecordRepo(pool),
			notifications: notification.NewNotificationRepo(pool),
		}
		logger.Info().Msg("using postgres storage")
	default:
		gate := db.NewMemTx()
		r = repos{
			tx:            gate,
			accounts:      account.NewMemoryRepo(gate),
			identities:    healthid.NewMemoryRepo(gate),
			records:       record.NewMemoryRepo(gate),
			notifications: notification.NewMemoryRepo(gate),
		}
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(reg)

	accounts := account.NewService(r.accounts, cfg.DefaultLanguage)
	identities := healthid.NewService(r.identities, healthid.WithIssueHook(a.metrics.IncrementHIDsIssued))
	records := record.NewService(r.records, identities,
		record.WithLocation(loc),
		record.WithHistoryLimit(cfg.HistoryLimit),
		record.WithAppendHook(a.metrics.IncrementRecordsAppended),
	)
	catalog := locale.NewCatalog(cfg.DefaultLanguage)
	logger.Info().Str("fallback_locale", catalog.Fallback()).Msg("message catalog loaded")
	notifications := notification.NewService(r.notifications, identities, accounts,
		catalog,
		notification.WithCreateHook(a.metrics.IncrementNotificationsCreated),
	)

	a.portal = portal.NewService(portal.Deps{
		Tx:            r.tx,
		Accounts:      accounts,
		Identities:    identities,
		Records:       records,
		Notifications: notifications,
		Recorder:      a.metrics,
		Logger:        logger,
	})
	a.tokens = auth.NewTokens(auth.TokenConfig{
		SigningKey: []byte(cfg.SessionSigningKey),
		TTL:        cfg.SessionTTL,
	})
	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
