// Package portal implements the role-facing operations: login, signup,
// worker registration, record entry, patient lookup and the worker
// dashboard. Every guarded call is authorized here before it reaches the
// account, identity, record or notification services.
package portal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/workerhealth/hid/internal/domain/access"
	"github.com/workerhealth/hid/internal/domain/account"
	"github.com/workerhealth/hid/internal/domain/healthid"
	"github.com/workerhealth/hid/internal/domain/notification"
	"github.com/workerhealth/hid/internal/domain/record"
	"github.com/workerhealth/hid/internal/platform/db"
)

// Recorder receives counters for events that do not surface as errors.
type Recorder interface {
	IncrementNotificationFailures()
	IncrementAccessDenied(operation, reason string)
}

type nopRecorder struct{}

func (nopRecorder) IncrementNotificationFailures()      {}
func (nopRecorder) IncrementAccessDenied(string, string) {}

// Service runs the boundary operations. Every operation is authorized
// before any component is called.
type Service struct {
	tx            db.TxRunner
	accounts      *account.Service
	identities    *healthid.Service
	records       *record.Service
	notifications *notification.Service
	recorder      Recorder
	logger        zerolog.Logger
}

// Deps are the collaborators of a Service. Recorder may be nil.
type Deps struct {
	Tx            db.TxRunner
	Accounts      *account.Service
	Identities    *healthid.Service
	Records       *record.Service
	Notifications *notification.Service
	Recorder      Recorder
	Logger        zerolog.Logger
}

// NewService creates a portal service from d.
func NewService(d Deps) *Service {
	rec := d.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{
		tx:            d.Tx,
		accounts:      d.Accounts,
		identities:    d.Identities,
		records:       d.Records,
		notifications: d.Notifications,
		recorder:      rec,
		logger:        d.Logger,
	}
}

// Enrollment is the outcome of signup or worker registration. HealthID is
// empty for non-worker accounts.
type Enrollment struct {
	Account  *account.Account
	HealthID string
}

// PatientView is what a doctor sees for one health identifier.
type PatientView struct {
	Account  *account.Account
	HealthID string
	History  []*record.MedicalRecord
}

// Dashboard is a worker's own view: identifier, newest record (nil when
// none) and every notification in insertion order.
type Dashboard struct {
	HealthID      string
	Latest        *record.MedicalRecord
	Notifications []*notification.Notification
}

func (s *Service) authorize(p *access.Principal, op access.Operation, owner *uuid.UUID) error {
	err := access.Authorize(p, op, owner)
	if err == nil {
		return nil
	}

	reason := "forbidden"
	if errors.Is(err, access.ErrUnauthenticated) {
		reason = "unauthenticated"
	}
	s.recorder.IncrementAccessDenied(string(op), reason)

	evt := s.logger.Warn().Str("op", string(op)).Str("reason", reason)
	if p != nil {
		evt = evt.Str("role", string(p.Role)).Str("account_id", p.AccountID.String())
	}
	evt.Msg("access denied")
	return err
}

// Login resolves a phone number to its account. Unknown phones fail with
// access.ErrUnauthenticated.
func (s *Service) Login(ctx context.Context, phone string) (*account.Account, error) {
	a, err := s.accounts.FindByPhone(ctx, phone)
	if errors.Is(err, account.ErrNotFound) {
		return nil, access.ErrUnauthenticated
	}
	return a, err
}

// Signup creates an account of any role and, for workers, issues a
// health identifier in the same transaction.
func (s *Service) Signup(ctx context.Context, name, phone string, role account.Role, language string) (*Enrollment, error) {
	return s.enroll(ctx, name, phone, role, language)
}

// RegisterWorker lets an admin enroll a worker on their behalf.
func (s *Service) RegisterWorker(ctx context.Context, p *access.Principal, name, phone, language string) (*Enrollment, error) {
	if err := s.authorize(p, access.OpRegisterWorker, nil); err != nil {
		return nil, err
	}
	return s.enroll(ctx, name, phone, account.RoleWorker, language)
}

func (s *Service) enroll(ctx context.Context, name, phone string, role account.Role, language string) (*Enrollment, error) {
	var out Enrollment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.accounts.Create(ctx, name, phone, role, language)
		if err != nil {
			return err
		}
		out.Account = a
		if role != account.RoleWorker {
			return nil
		}
		h, err := s.identities.IssueForWorker(ctx, a.ID)
		if err != nil {
			return err
		}
		out.HealthID = h.HealthUUID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("op", "enroll").
		Str("role", string(role)).
		Str("account_id", out.Account.ID.String()).
		Str("health_id", out.HealthID).
		Msg("account enrolled")
	return &out, nil
}

// AddRecord appends a record for hid and then, best effort, creates the
// follow-up notification. A notification failure is logged and counted
// but never undoes the stored record.
func (s *Service) AddRecord(ctx context.Context, p *access.Principal, hid string, f record.Fields) (*record.MedicalRecord, error) {
	if err := s.authorize(p, access.OpAppendRecord, nil); err != nil {
		return nil, err
	}

	rec, err := s.records.Append(ctx, hid, f, p.AccountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.notifications.MaybeNotify(ctx, rec); err != nil {
		s.recorder.IncrementNotificationFailures()
		s.logger.Error().Err(err).
			Str("op", "add_record").
			Str("health_id", rec.HealthUUID).
			Str("record_id", rec.ID.String()).
			Msg("follow-up notification failed")
	}
	return rec, nil
}

// GetPatient returns the owner's contact details and recent history for
// hid. limit <= 0 uses the record store's default.
func (s *Service) GetPatient(ctx context.Context, p *access.Principal, hid string, limit int) (*PatientView, error) {
	if err := s.authorize(p, access.OpReadPatient, nil); err != nil {
		return nil, err
	}
	if err := s.authorize(p, access.OpReadHistory, nil); err != nil {
		return nil, err
	}

	h, err := s.identities.ResolveByUUID(ctx, hid)
	if err != nil {
		return nil, err
	}
	owner, err := s.accounts.FindByID(ctx, h.AccountID)
	if err != nil {
		return nil, err
	}
	history, err := s.records.CollectHistory(ctx, h.HealthUUID, limit)
	if err != nil {
		return nil, err
	}
	return &PatientView{Account: owner, HealthID: h.HealthUUID, History: history}, nil
}

// WorkerDashboard is the caller's own dashboard.
func (s *Service) WorkerDashboard(ctx context.Context, p *access.Principal) (*Dashboard, error) {
	if p == nil {
		return nil, s.authorize(nil, access.OpReadOwnIdentity, nil)
	}
	return s.DashboardFor(ctx, p, p.AccountID)
}

// DashboardFor assembles the dashboard of accountID. Only that account's
// own worker principal is allowed.
func (s *Service) DashboardFor(ctx context.Context, p *access.Principal, accountID uuid.UUID) (*Dashboard, error) {
	if err := s.authorize(p, access.OpReadOwnIdentity, &accountID); err != nil {
		return nil, err
	}
	h, err := s.identities.ResolveByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(p, access.OpReadOwnLatest, &h.AccountID); err != nil {
		return nil, err
	}
	latest, err := s.records.LatestFor(ctx, h.HealthUUID)
	if err != nil && !errors.Is(err, record.ErrNotFound) {
		return nil, err
	}

	if err := s.authorize(p, access.OpReadOwnNotifications, &h.AccountID); err != nil {
		return nil, err
	}
	notes, err := s.notifications.ListFor(ctx, h.AccountID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{HealthID: h.HealthUUID, Latest: latest, Notifications: notes}, nil
}
