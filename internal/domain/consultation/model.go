package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Consultation statuses.
const (
	StatusWaiting    = "WAITING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

var transitions = map[string]map[string]bool{
	StatusWaiting:    {StatusInProgress: true},
	StatusInProgress: {StatusCompleted: true},
}

// CanTransition reports whether a consultation may move between the two
// statuses.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

var validVisitTypes = map[string]bool{
	"NEW_VISIT": true, "FOLLOW_UP": true, "REVIEW": true,
}

// Consultation maps to the consultations table.
type Consultation struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	PatientID            uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID             uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	TokenNumber          *string    `db:"token_number" json:"token_number,omitempty"`
	VisitType            string     `db:"visit_type" json:"visit_type"`
	Status               string     `db:"status" json:"status"`
	ScheduledTime        time.Time  `db:"scheduled_time" json:"scheduled_time"`
	StartTime            *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime              *time.Time `db:"end_time" json:"end_time,omitempty"`
	ChiefComplaints      *string    `db:"chief_complaints" json:"chief_complaints,omitempty"`
	HistoryPresent       *string    `db:"history_present" json:"history_present,omitempty"`
	ProvisionalDiagnosis *string    `db:"provisional_diagnosis" json:"provisional_diagnosis,omitempty"`
	FinalDiagnosis       *string    `db:"final_diagnosis" json:"final_diagnosis,omitempty"`
	GeneralAdvice        *string    `db:"general_advice" json:"general_advice,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`

	PatientName   string `db:"-" json:"patient_name,omitempty"`
	PatientNumber string `db:"-" json:"patient_number,omitempty"`
}

// Vitals maps to the vitals table, one row per consultation.
type Vitals struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConsultationID uuid.UUID `db:"consultation_id" json:"consultation_id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	BloodPressure  *string   `db:"blood_pressure" json:"blood_pressure,omitempty"`
	PulseRate      *int      `db:"pulse_rate" json:"pulse_rate,omitempty"`
	Temperature    *float64  `db:"temperature" json:"temperature,omitempty"`
	Weight         *float64  `db:"weight" json:"weight,omitempty"`
	Height         *float64  `db:"height" json:"height,omitempty"`
	SpO2           *int      `db:"spo2" json:"spo2,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
