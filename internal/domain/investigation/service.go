package investigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("investigation not found")
	ErrIllegalTransition = errors.New("illegal status change")
)

type Service struct {
	investigations Repository
}

func NewService(investigations Repository) *Service {
	return &Service{investigations: investigations}
}

func (s *Service) Order(ctx context.Context, inv *Investigation) error {
	if inv.ConsultationID == uuid.Nil {
		return fmt.Errorf("consultation_id is required")
	}
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if inv.TestName == "" {
		return fmt.Errorf("test_name is required")
	}
	if !validTestTypes[inv.TestType] {
		return fmt.Errorf("invalid test_type: %s", inv.TestType)
	}
	inv.Status = StatusPending
	return s.investigations.Create(ctx, inv)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Investigation, error) {
	return s.investigations.GetByID(ctx, id)
}

// Update edits order details. Completed investigations are immutable,
// and status never changes here.
func (s *Service) Update(ctx context.Context, inv *Investigation) error {
	existing, err := s.investigations.GetByID(ctx, inv.ID)
	if err != nil {
		return ErrNotFound
	}
	if existing.Status == StatusCompleted {
		return fmt.Errorf("cannot modify a completed investigation")
	}
	if inv.TestType != "" && !validTestTypes[inv.TestType] {
		return fmt.Errorf("invalid test_type: %s", inv.TestType)
	}
	inv.Status = existing.Status
	inv.ResultDate = existing.ResultDate
	inv.Findings = existing.Findings
	return s.investigations.Update(ctx, inv)
}

// MarkProcessing moves a pending order to the lab.
func (s *Service) MarkProcessing(ctx context.Context, id uuid.UUID) (*Investigation, error) {
	inv, err := s.investigations.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !CanTransition(inv.Status, StatusProcessing) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, inv.Status, StatusProcessing)
	}
	inv.Status = StatusProcessing
	if err := s.investigations.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RecordResult completes a processing investigation with its findings.
func (s *Service) RecordResult(ctx context.Context, id uuid.UUID, findings string) (*Investigation, error) {
	inv, err := s.investigations.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !CanTransition(inv.Status, StatusCompleted) {
		return nil, fmt.Errorf("%w: cannot record result in status %s", ErrIllegalTransition, inv.Status)
	}
	if findings == "" {
		return nil, fmt.Errorf("findings are required")
	}
	now := time.Now()
	inv.Status = StatusCompleted
	inv.ResultDate = &now
	inv.Findings = &findings
	if err := s.investigations.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.investigations.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Investigation, int, error) {
	return s.investigations.Search(ctx, params, limit, offset)
}
