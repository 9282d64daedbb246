package portal

import (
	"time"

	"github.com/workerhealth/hid/internal/domain/notification"
	"github.com/workerhealth/hid/internal/domain/record"
)

type loginRequest struct {
	Phone string `json:"phone"`
}

type loginResponse struct {
	Role  string `json:"role"`
	Token string `json:"token"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Language string `json:"language"`
}

type signupResponse struct {
	Role     string `json:"role"`
	HealthID string `json:"health_id,omitempty"`
	Token    string `json:"token"`
}

type registerWorkerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

type registerWorkerResponse struct {
	HealthID string `json:"health_id"`
}

type addRecordRequest struct {
	HealthID string `json:"health_id"`
	record.Fields
}

type statusResponse struct {
	Status string `json:"status"`
}

type getPatientRequest struct {
	HealthID string `json:"health_id"`
	Limit    int    `json:"limit"`
}

type recordResponse struct {
	ID           string    `json:"id"`
	HealthID     string    `json:"health_id"`
	Diagnosis    string    `json:"diagnosis"`
	Prescription string    `json:"prescription"`
	BloodGroup   string    `json:"blood_group"`
	BloodSummary string    `json:"blood_summary"`
	Injuries     string    `json:"injuries"`
	Allergies    string    `json:"allergies"`
	Remarks      string    `json:"remarks"`
	NextVisit    *string   `json:"next_visit"`
	DoctorID     string    `json:"doctor_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecordResponse(r *record.MedicalRecord) *recordResponse {
	if r == nil {
		return nil
	}
	return &recordResponse{
		ID:           r.ID.String(),
		HealthID:     r.HealthUUID,
		Diagnosis:    r.Diagnosis,
		Prescription: r.Prescription,
		BloodGroup:   r.BloodGroup,
		BloodSummary: r.BloodSummary,
		Injuries:     r.Injuries,
		Allergies:    r.Allergies,
		Remarks:      r.Remarks,
		NextVisit:    r.NextVisit,
		DoctorID:     r.DoctorID.String(),
		CreatedAt:    r.CreatedAt,
	}
}

type patientResponse struct {
	Name     string            `json:"name"`
	Phone    string            `json:"phone"`
	Language string            `json:"language"`
	HealthID string            `json:"health_id"`
	History  []*recordResponse `json:"history"`
}

type notificationResponse struct {
	Message   string    `json:"message"`
	Language  string    `json:"language"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type dashboardResponse struct {
	HealthID      string                 `json:"health_id"`
	MedicalRecord *recordResponse        `json:"medical_record"`
	Notifications []notificationResponse `json:"notifications"`
}

func toDashboardResponse(d *Dashboard) dashboardResponse {
	notes := make([]notificationResponse, len(d.Notifications))
	for i, n := range d.Notifications {
		notes[i] = toNotificationResponse(n)
	}
	return dashboardResponse{
		HealthID:      d.HealthID,
		MedicalRecord: toRecordResponse(d.Latest),
		Notifications: notes,
	}
}

func toNotificationResponse(n *notification.Notification) notificationResponse {
	return notificationResponse{
		Message:   n.Message,
		Language:  n.Language,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
