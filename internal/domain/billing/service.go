package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JayanathBuddhika/medical-practice-management/internal/domain/rules"
	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/db"
)

var ErrNotFound = errors.New("bill not found")

type Service struct {
	bills Repository
	now   func() time.Time
}

func NewService(bills Repository) *Service {
	return &Service{bills: bills, now: time.Now}
}

// Create issues a new bill for a consultation. The total is computed
// once from the charge lines; the bill number is sequential within the
// calendar year.
func (s *Service) Create(ctx context.Context, b *Bill) error {
	if b.ConsultationID == uuid.Nil {
		return fmt.Errorf("consultation_id is required")
	}
	if b.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if b.ConsultationFee < 0 || b.ProcedureCharges < 0 || b.OtherCharges < 0 || b.Discount < 0 {
		return fmt.Errorf("charges cannot be negative")
	}
	if b.PaymentMode != nil && !validPaymentModes[*b.PaymentMode] {
		return fmt.Errorf("invalid payment_mode: %s", *b.PaymentMode)
	}

	b.TotalAmount = rules.BillTotal(b.ConsultationFee, b.ProcedureCharges, b.OtherCharges, b.Discount)
	if b.PaidAmount < 0 {
		b.PaidAmount = 0
	}
	now := s.now()
	if b.DueDate == nil {
		due := now.Add(7 * 24 * time.Hour)
		b.DueDate = &due
	}
	b.PaymentStatus = rules.DerivePaymentStatus(b.TotalAmount, b.PaidAmount, b.DueDate, now)

	year := now.Year()
	count, err := s.bills.CountByYear(ctx, year)
	if err != nil {
		return err
	}
	b.BillNumber = rules.FormatBillNumber(year, count+1)
	if err := s.bills.Create(ctx, b); err != nil {
		if !db.IsUniqueViolation(err) {
			return err
		}
		// The unique bill_number constraint trips when two bills race
		// for the same sequence. Recount and retry once.
		count, cerr := s.bills.CountByYear(ctx, year)
		if cerr != nil {
			return err
		}
		b.BillNumber = rules.FormatBillNumber(year, count+1)
		if rerr := s.bills.Create(ctx, b); rerr != nil {
			return rerr
		}
	}
	b.BalanceAmount = b.TotalAmount - b.PaidAmount
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

// RecordPayment applies a payment to the bill's running total and
// rederives its payment status.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, p Payment) (*Bill, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	if p.PaymentMode != "" && !validPaymentModes[p.PaymentMode] {
		return nil, fmt.Errorf("invalid payment_mode: %s", p.PaymentMode)
	}
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if b.TotalAmount-b.PaidAmount <= 0 {
		return nil, fmt.Errorf("bill %s is already settled", b.BillNumber)
	}
	b.PaidAmount += p.Amount
	if p.PaymentMode != "" {
		b.PaymentMode = &p.PaymentMode
	}
	b.PaymentStatus = rules.DerivePaymentStatus(b.TotalAmount, b.PaidAmount, b.DueDate, s.now())
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	b.BalanceAmount = b.TotalAmount - b.PaidAmount
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bills.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	return s.bills.Search(ctx, params, limit, offset)
}
