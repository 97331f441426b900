package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescriptions table. Items carry the actual
// drug lines.
type Prescription struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConsultationID uuid.UUID `db:"consultation_id" json:"consultation_id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID       uuid.UUID `db:"doctor_id" json:"doctor_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	Items []*Item `db:"-" json:"items"`
}

// Item maps to the prescription_items table.
type Item struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	DrugName       string    `db:"drug_name" json:"drug_name"`
	Dosage         *string   `db:"dosage" json:"dosage,omitempty"`
	Duration       *string   `db:"duration" json:"duration,omitempty"`
	Instructions   *string   `db:"instructions" json:"instructions,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Template maps to the prescription_templates table: a reusable set of
// drug lines for common diagnoses.
type Template struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Items []*TemplateItem `db:"-" json:"items"`
}

// TemplateItem maps to the prescription_template_items table.
type TemplateItem struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TemplateID   uuid.UUID `db:"template_id" json:"template_id"`
	DrugName     string    `db:"drug_name" json:"drug_name"`
	Dosage       *string   `db:"dosage" json:"dosage,omitempty"`
	Duration     *string   `db:"duration" json:"duration,omitempty"`
	Instructions *string   `db:"instructions" json:"instructions,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
