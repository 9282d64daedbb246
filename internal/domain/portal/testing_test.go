package portal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/workerhealth/hid/internal/domain/account"
	"github.com/workerhealth/hid/internal/domain/healthid"
	"github.com/workerhealth/hid/internal/domain/notification"
	"github.com/workerhealth/hid/internal/domain/record"
	"github.com/workerhealth/hid/internal/platform/db"
	"github.com/workerhealth/hid/internal/platform/locale"
)

var testNow = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

type countingRecorder struct {
	failures int
	denied   map[string]int
}

func (r *countingRecorder) IncrementNotificationFailures() { r.failures++ }
func (r *countingRecorder) IncrementAccessDenied(op, reason string) {
	if r.denied == nil {
		r.denied = make(map[string]int)
	}
	r.denied[op+"/"+reason]++
}

type failingNotifications struct{ notification.Repository }

func (failingNotifications) Create(context.Context, *notification.Notification) error {
	return errors.New("notification store down")
}

type harness struct {
	svc      *Service
	recorder *countingRecorder
	clock    time.Time
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	notifications func(notification.Repository) notification.Repository
}

func withNotificationRepo(wrap func(notification.Repository) notification.Repository) harnessOption {
	return func(c *harnessConfig) { c.notifications = wrap }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	var cfg harnessConfig
	for _, o := range opts {
		o(&cfg)
	}

	gate := db.NewMemTx()
	accounts := account.NewService(account.NewMemoryRepo(gate), "en")
	ids := healthid.NewService(healthid.NewMemoryRepo(gate))

	h := &harness{recorder: &countingRecorder{}, clock: testNow}
	records := record.NewService(record.NewMemoryRepo(gate), ids,
		record.WithClock(func() time.Time { return h.clock }))

	var notes notification.Repository = notification.NewMemoryRepo(gate)
	if cfg.notifications != nil {
		notes = cfg.notifications(notes)
	}

	h.svc = NewService(Deps{
		Tx:            gate,
		Accounts:      accounts,
		Identities:    ids,
		Records:       records,
		Notifications: notification.NewService(notes, ids, accounts, locale.NewCatalog("en")),
		Recorder:      h.recorder,
		Logger:        zerolog.Nop(),
	})
	return h
}

func (h *harness) tick(d time.Duration) { h.clock = h.clock.Add(d) }

func strptr(s string) *string { return &s }
