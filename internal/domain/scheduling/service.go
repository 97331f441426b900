package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/rules"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrIllegalTransition = errors.New("illegal status change")

	// ErrTokenConflict is returned when the daily token number is lost
	// to a concurrent booking twice in a row.
	ErrTokenConflict = errors.New("token number conflict, please retry")
)

type Service struct {
	appointments Repository
}

func NewService(appointments Repository) *Service {
	return &Service{appointments: appointments}
}

// Create books an appointment and assigns the next daily queue token.
// The (day, token) pair is guarded by a unique index, so a concurrent
// booking that claims the same token fails and is retried once with a
// fresh count.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.AppointmentDate.IsZero() {
		return fmt.Errorf("appointment_date is required")
	}
	if !rules.IsValidTimeSlot(a.TimeSlot) {
		return fmt.Errorf("invalid time_slot: %s", a.TimeSlot)
	}
	if a.Priority == "" {
		a.Priority = "NORMAL"
	}
	if !validPriorities[a.Priority] {
		return fmt.Errorf("invalid priority: %s", a.Priority)
	}
	a.Status = StatusScheduled

	booked, err := s.appointments.BookedSlots(ctx, a.AppointmentDate, a.DoctorID)
	if err != nil {
		return err
	}
	for _, slot := range booked {
		if slot == a.TimeSlot {
			return fmt.Errorf("time slot %s is already booked", a.TimeSlot)
		}
	}

	count, err := s.appointments.CountByDay(ctx, a.AppointmentDate)
	if err != nil {
		return err
	}
	a.TokenNumber = rules.FormatToken(count + 1)
	err = s.appointments.Create(ctx, a)
	if db.IsUniqueViolation(err) {
		count, cerr := s.appointments.CountByDay(ctx, a.AppointmentDate)
		if cerr != nil {
			return err
		}
		a.TokenNumber = rules.FormatToken(count + 1)
		err = s.appointments.Create(ctx, a)
		if db.IsUniqueViolation(err) {
			return ErrTokenConflict
		}
	}
	return err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// Update changes booking details. Status changes go through
// ChangeStatus; completed and cancelled appointments are immutable.
func (s *Service) Update(ctx context.Context, a *Appointment) error {
	existing, err := s.appointments.GetByID(ctx, a.ID)
	if err != nil {
		return ErrNotFound
	}
	if existing.Status == StatusCompleted || existing.Status == StatusCancelled {
		return fmt.Errorf("cannot modify a %s appointment", existing.Status)
	}
	if a.TimeSlot != "" && !rules.IsValidTimeSlot(a.TimeSlot) {
		return fmt.Errorf("invalid time_slot: %s", a.TimeSlot)
	}
	if a.Priority != "" && !validPriorities[a.Priority] {
		return fmt.Errorf("invalid priority: %s", a.Priority)
	}
	return s.appointments.Update(ctx, a)
}

// ChangeStatus enforces the appointment status graph.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !CanTransition(a.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, a.Status, status)
	}
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.Search(ctx, params, limit, offset)
}

// AvailableSlots returns the free slots for a day, optionally scoped to
// one doctor. Only cancelled bookings release their slot.
func (s *Service) AvailableSlots(ctx context.Context, day time.Time, doctorID *uuid.UUID) ([]string, error) {
	booked, err := s.appointments.BookedSlots(ctx, day, doctorID)
	if err != nil {
		return nil, err
	}
	return rules.AvailableSlots(booked), nil
}

func (s *Service) ListByDay(ctx context.Context, day time.Time) ([]*Appointment, error) {
	return s.appointments.ListByDay(ctx, day)
}
