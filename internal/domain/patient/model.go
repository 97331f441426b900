package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/rules"
)

// Patient maps to the patients table. PatientID is the human-readable
// registration number shown on cards and bills.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   string     `db:"patient_id" json:"patient_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Gender      string     `db:"gender" json:"gender"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	BloodGroup  *string    `db:"blood_group" json:"blood_group,omitempty"`
	Allergies   *string    `db:"allergies" json:"allergies,omitempty"`
	Emergency   *string    `db:"emergency" json:"emergency,omitempty"`
	CreatedBy   *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Age int `db:"-" json:"age"`
}

// ComputeAge fills the derived Age field from the date of birth.
func (p *Patient) ComputeAge(now time.Time) {
	p.Age = rules.CalculateAge(p.DateOfBirth, now)
}
