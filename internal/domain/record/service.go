package record

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workerhealth/hid/internal/domain/healthid"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// IdentityResolver is the slice of the identity registry the record store
// depends on.
type IdentityResolver interface {
	ResolveByUUID(ctx context.Context, hid string) (*healthid.HealthIdentity, error)
}

// Service is the append-only medical record store.
type Service struct {
	records      Repository
	identities   IdentityResolver
	now          func() time.Time
	loc          *time.Location
	historyLimit int
	onAppend     func()
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone in which "today" is evaluated for follow-up
// dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithHistoryLimit sets the default history bound.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = min(n, MaxHistoryLimit)
		}
	}
}

// WithAppendHook registers a callback run after each successful append.
func WithAppendHook(fn func()) Option {
	return func(s *Service) { s.onAppend = fn }
}

// NewService creates the record store. Appends are only accepted for
// identities that identities can resolve.
func NewService(records Repository, identities IdentityResolver, opts ...Option) *Service {
	s := &Service{
		records:      records,
		identities:   identities,
		now:          time.Now,
		loc:          time.UTC,
		historyLimit: DefaultHistoryLimit,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Append validates and stores a new record. Validation order is identifier
// format, follow-up date, then identifier resolution; nothing is written
// unless all three pass.
func (s *Service) Append(ctx context.Context, hid string, f Fields, doctorID uuid.UUID) (*MedicalRecord, error) {
	canonical, err := healthid.Parse(hid)
	if err != nil {
		return nil, err
	}

	now := s.now()
	nextVisit, err := s.normalizeNextVisit(f.NextVisit, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.identities.ResolveByUUID(ctx, canonical); err != nil {
		return nil, err
	}

	rec := &MedicalRecord{
		ID:           uuid.New(),
		HealthUUID:   canonical,
		Diagnosis:    f.Diagnosis,
		Prescription: f.Prescription,
		BloodGroup:   f.BloodGroup,
		BloodSummary: f.BloodSummary,
		Injuries:     f.Injuries,
		Allergies:    f.Allergies,
		Remarks:      f.Remarks,
		NextVisit:    nextVisit,
		DoctorID:     doctorID,
		CreatedAt:    now.UTC(),
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, err
	}
	if s.onAppend != nil {
		s.onAppend()
	}
	return rec, nil
}

// normalizeNextVisit maps nil or blank input to absent and otherwise
// requires a YYYY-MM-DD date that is not before today in s.loc.
func (s *Service) normalizeNextVisit(raw *string, now time.Time) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil, nil
	}

	d, err := time.ParseInLocation(DateLayout, v, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidFollowUpDate, v)
	}
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	if d.Before(today) {
		return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidFollowUpDate, v)
	}

	out := d.Format(DateLayout)
	return &out, nil
}

// LatestFor returns the newest record for hid, or ErrNotFound.
func (s *Service) LatestFor(ctx context.Context, hid string) (*MedicalRecord, error) {
	canonical, err := healthid.Parse(hid)
	if err != nil {
		return nil, err
	}
	return s.records.Latest(ctx, canonical)
}

// HistoryFor yields up to limit records for hid, newest first. The query
// runs each time the sequence is ranged over; limit <= 0 selects the
// configured default and values above MaxHistoryLimit are capped. A
// malformed identifier is yielded as the sequence's only error.
func (s *Service) HistoryFor(ctx context.Context, hid string, limit int) iter.Seq2[*MedicalRecord, error] {
	if limit <= 0 {
		limit = s.historyLimit
	}
	limit = min(limit, MaxHistoryLimit)

	return func(yield func(*MedicalRecord, error) bool) {
		canonical, err := healthid.Parse(hid)
		if err != nil {
			yield(nil, err)
			return
		}
		list, err := s.records.History(ctx, canonical, limit)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, rec := range list {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// CollectHistory drains HistoryFor into a slice.
func (s *Service) CollectHistory(ctx context.Context, hid string, limit int) ([]*MedicalRecord, error) {
	out := []*MedicalRecord{}
	for rec, err := range s.HistoryFor(ctx, hid, limit) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
