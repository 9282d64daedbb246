package record

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage form of a follow-up date.
const DateLayout = "2006-01-02"

// MedicalRecord is one immutable entry in a worker's medical history.
// NextVisit is nil when no follow-up was requested.
type MedicalRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	HealthUUID   string    `db:"health_uuid" json:"health_id"`
	Diagnosis    string    `db:"diagnosis" json:"diagnosis"`
	Prescription string    `db:"prescription" json:"prescription"`
	BloodGroup   string    `db:"blood_group" json:"blood_group"`
	BloodSummary string    `db:"blood_summary" json:"blood_summary"`
	Injuries     string    `db:"injuries" json:"injuries"`
	Allergies    string    `db:"allergies" json:"allergies"`
	Remarks      string    `db:"remarks" json:"remarks"`
	NextVisit    *string   `db:"next_visit" json:"next_visit"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// HasFollowUp reports whether the record carries a follow-up date.
func (r *MedicalRecord) HasFollowUp() bool {
	return r != nil && r.NextVisit != nil
}

// Fields is the doctor-supplied content of a new record. A nil or blank
// NextVisit means no follow-up.
type Fields struct {
	Diagnosis    string  `json:"diagnosis"`
	Prescription string  `json:"prescription"`
	BloodGroup   string  `json:"blood_group"`
	BloodSummary string  `json:"blood_summary"`
	Injuries     string  `json:"injuries"`
	Allergies    string  `json:"allergies"`
	Remarks      string  `json:"remarks"`
	NextVisit    *string `json:"next_visit"`
}
