package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("consultation not found")
	ErrIllegalTransition = errors.New("illegal status change")
)

type Service struct {
	consultations Repository
	vitals        VitalsRepository
}

func NewService(consultations Repository, vitals VitalsRepository) *Service {
	return &Service{consultations: consultations, vitals: vitals}
}

func (s *Service) Create(ctx context.Context, c *Consultation) error {
	if c.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if c.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if c.ScheduledTime.IsZero() {
		c.ScheduledTime = time.Now()
	}
	if c.VisitType == "" {
		c.VisitType = "NEW_VISIT"
	}
	if !validVisitTypes[c.VisitType] {
		return fmt.Errorf("invalid visit_type: %s", c.VisitType)
	}
	c.Status = StatusWaiting
	return s.consultations.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.consultations.GetByID(ctx, id)
}

// Update saves clinical notes. Completed consultations are immutable.
func (s *Service) Update(ctx context.Context, c *Consultation) error {
	existing, err := s.consultations.GetByID(ctx, c.ID)
	if err != nil {
		return ErrNotFound
	}
	if existing.Status == StatusCompleted {
		return fmt.Errorf("cannot modify a completed consultation")
	}
	if c.VisitType != "" && !validVisitTypes[c.VisitType] {
		return fmt.Errorf("invalid visit_type: %s", c.VisitType)
	}
	// Status and timing fields only change via Start/Complete.
	c.Status = existing.Status
	c.StartTime = existing.StartTime
	c.EndTime = existing.EndTime
	if c.VisitType == "" {
		c.VisitType = existing.VisitType
	}
	return s.consultations.Update(ctx, c)
}

// Start moves a waiting consultation to IN_PROGRESS and stamps the
// start time.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !CanTransition(c.Status, StatusInProgress) {
		return nil, fmt.Errorf("%w: cannot start consultation in status %s", ErrIllegalTransition, c.Status)
	}
	now := time.Now()
	c.Status = StatusInProgress
	c.StartTime = &now
	if err := s.consultations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Complete closes an in-progress consultation, stamping the end time
// and saving any final notes carried in the request.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, finalDiagnosis, generalAdvice *string) (*Consultation, error) {
	c, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !CanTransition(c.Status, StatusCompleted) {
		return nil, fmt.Errorf("%w: cannot complete consultation in status %s", ErrIllegalTransition, c.Status)
	}
	now := time.Now()
	c.Status = StatusCompleted
	c.EndTime = &now
	if finalDiagnosis != nil {
		c.FinalDiagnosis = finalDiagnosis
	}
	if generalAdvice != nil {
		c.GeneralAdvice = generalAdvice
	}
	if err := s.consultations.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.consultations.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error) {
	return s.consultations.Search(ctx, params, limit, offset)
}

// Queue lists today's not-yet-completed consultations in arrival order.
func (s *Service) Queue(ctx context.Context, day time.Time) ([]*Consultation, error) {
	return s.consultations.ListQueue(ctx, day)
}

// -- Vitals --

func (s *Service) RecordVitals(ctx context.Context, v *Vitals) error {
	if v.ConsultationID == uuid.Nil {
		return fmt.Errorf("consultation_id is required")
	}
	c, err := s.consultations.GetByID(ctx, v.ConsultationID)
	if err != nil {
		return ErrNotFound
	}
	if c.Status == StatusCompleted {
		return fmt.Errorf("cannot record vitals on a completed consultation")
	}
	v.PatientID = c.PatientID
	return s.vitals.Upsert(ctx, v)
}

func (s *Service) GetVitals(ctx context.Context, consultationID uuid.UUID) (*Vitals, error) {
	return s.vitals.GetByConsultation(ctx, consultationID)
}
