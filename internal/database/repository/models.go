package repository

import "time"

// Roles a user row may carry.
const (
	RolePatient   = "patient"
	RoleDoctor    = "doctor"
	RoleAssistant = "assistant"
)

// User represents a user row.
type User struct {
	ID        string
	Role      string
	FullName  string
	Email     string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Analysis statuses.
const (
	AnalysisPending  = "pending"
	AnalysisReviewed = "reviewed"
)

// Analysis represents a skin-condition analysis row. Condition, confidence
// and severity arrive from the external model pipeline and stay nil until a
// result lands.
type Analysis struct {
	ID         string
	PatientID  string
	ImagePath  string
	Condition  *string
	Confidence *float64
	Severity   *string
	Status     string
	ReviewedBy *string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment represents an appointment row.
type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    string
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Call session statuses.
const (
	SessionCreated = "created"
	SessionLive    = "live"
	SessionEnded   = "ended"
)

// CallSession represents a video-call session bound to an appointment.
type CallSession struct {
	ID            string
	AppointmentID string
	RoomCode      string
	Status        string
	StartedAt     *time.Time
	EndedAt       *time.Time
	CreatedAt     time.Time
}
