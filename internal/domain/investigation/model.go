package investigation

import (
	"time"

	"github.com/google/uuid"
)

// Investigation statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
)

var transitions = map[string]map[string]bool{
	StatusPending:    {StatusProcessing: true},
	StatusProcessing: {StatusCompleted: true},
}

// CanTransition reports whether an investigation may move between the
// two statuses.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

var validTestTypes = map[string]bool{
	"LAB": true, "BLOOD_TEST": true, "IMAGING": true,
	"CARDIOLOGY": true, "PULMONARY": true,
}

// Investigation maps to the investigations table: a test ordered during
// a consultation, later carrying the lab's findings.
type Investigation struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ConsultationID uuid.UUID  `db:"consultation_id" json:"consultation_id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	TestName       string     `db:"test_name" json:"test_name"`
	TestType       string     `db:"test_type" json:"test_type"`
	LabName        *string    `db:"lab_name" json:"lab_name,omitempty"`
	Status         string     `db:"status" json:"status"`
	OrderedAt      time.Time  `db:"ordered_at" json:"ordered_at"`
	ResultDate     *time.Time `db:"result_date" json:"result_date,omitempty"`
	Findings       *string    `db:"findings" json:"findings,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	PatientName   string `db:"-" json:"patient_name,omitempty"`
	PatientNumber string `db:"-" json:"patient_number,omitempty"`
}
