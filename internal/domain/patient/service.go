package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/rules"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

var validGenders = map[string]bool{"MALE": true, "FEMALE": true, "OTHER": true}

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" {
		return fmt.Errorf("first_name is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("last_name is required")
	}
	if p.DateOfBirth.IsZero() {
		return fmt.Errorf("date_of_birth is required")
	}
	if p.DateOfBirth.After(time.Now()) {
		return fmt.Errorf("date_of_birth cannot be in the future")
	}
	if !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %s", p.Gender)
	}

	count, err := s.patients.Count(ctx)
	if err != nil {
		return err
	}
	p.PatientID = rules.FormatPatientID(count + 1)
	err = s.patients.Create(ctx, p)
	if db.IsUniqueViolation(err) {
		// A concurrent registration can claim the same number. Recount
		// and try once more before giving up.
		count, cerr := s.patients.Count(ctx)
		if cerr != nil {
			return err
		}
		p.PatientID = rules.FormatPatientID(count + 1)
		err = s.patients.Create(ctx, p)
	}
	if err == nil {
		p.ComputeAge(time.Now())
	}
	return err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ComputeAge(time.Now())
	return p, nil
}

func (s *Service) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	p, err := s.patients.GetByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	p.ComputeAge(time.Now())
	return p, nil
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	existing, err := s.patients.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.Gender != "" && !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %s", p.Gender)
	}
	// The registration number never changes.
	p.PatientID = existing.PatientID
	if err := s.patients.Update(ctx, p); err != nil {
		return err
	}
	p.ComputeAge(time.Now())
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	items, total, err := s.patients.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for _, p := range items {
		p.ComputeAge(now)
	}
	return items, total, nil
}
