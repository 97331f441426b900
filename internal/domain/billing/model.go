package billing

import (
	"time"

	"github.com/google/uuid"
)

var validPaymentModes = map[string]bool{
	"CASH": true, "CARD": true, "UPI": true, "INSURANCE": true,
}

// Bill maps to the bills table. Charges are fixed when the bill is
// created; only paid_amount and payment_status move afterwards.
type Bill struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	BillNumber       string     `db:"bill_number" json:"bill_number"`
	ConsultationID   uuid.UUID  `db:"consultation_id" json:"consultation_id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	ConsultationFee  float64    `db:"consultation_fee" json:"consultation_fee"`
	ProcedureCharges float64    `db:"procedure_charges" json:"procedure_charges"`
	OtherCharges     float64    `db:"other_charges" json:"other_charges"`
	Discount         float64    `db:"discount" json:"discount"`
	TotalAmount      float64    `db:"total_amount" json:"total_amount"`
	PaidAmount       float64    `db:"paid_amount" json:"paid_amount"`
	PaymentMode      *string    `db:"payment_mode" json:"payment_mode,omitempty"`
	PaymentStatus    string     `db:"payment_status" json:"payment_status"`
	DueDate          *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`

	PatientName   string  `db:"-" json:"patient_name,omitempty"`
	PatientNumber string  `db:"-" json:"patient_number,omitempty"`
	BalanceAmount float64 `db:"-" json:"balance_amount"`
}

// Payment is a single payment applied against a bill. Only running
// totals persist; per-payment history is not kept.
type Payment struct {
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
}
