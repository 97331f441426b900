package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled  = "SCHEDULED"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
	StatusNoShow     = "NO_SHOW"
)

// transitions is the allowed status graph. Completed, cancelled and
// no-show are terminal.
var transitions = map[string]map[string]bool{
	StatusScheduled: {
		StatusConfirmed: true,
		StatusCancelled: true,
		StatusNoShow:    true,
	},
	StatusConfirmed: {
		StatusInProgress: true,
		StatusCancelled:  true,
		StatusNoShow:     true,
	},
	StatusInProgress: {
		StatusCompleted: true,
	},
}

// CanTransition reports whether an appointment may move from one status
// to another.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

var validPriorities = map[string]bool{
	"LOW": true, "NORMAL": true, "HIGH": true, "URGENT": true,
}

// Appointment maps to the appointments table. TokenNumber is the daily
// queue token handed to the patient at booking.
type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID        *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	AppointmentDate time.Time  `db:"appointment_date" json:"appointment_date"`
	TimeSlot        string     `db:"time_slot" json:"time_slot"`
	Purpose         *string    `db:"purpose" json:"purpose,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	Priority        string     `db:"priority" json:"priority"`
	Status          string     `db:"status" json:"status"`
	TokenNumber     string     `db:"token_number" json:"token_number"`
	CreatedBy       *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`

	// Populated on list queries that join patients.
	PatientName   string `db:"-" json:"patient_name,omitempty"`
	PatientNumber string `db:"-" json:"patient_number,omitempty"`
}
