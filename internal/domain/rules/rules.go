// Package rules holds the clinic's small shared business rules: display
// identifier formats, the consultation slot grid, and age computation.
package rules

import (
	"fmt"
	"time"
)

// TimeSlots is the fixed half-hour consultation grid. Two four-hour
// sessions with a lunch break between 13:00 and 14:00.
var TimeSlots = []string{
	"09:00-09:30", "09:30-10:00", "10:00-10:30", "10:30-11:00",
	"11:00-11:30", "11:30-12:00", "12:00-12:30", "12:30-13:00",
	"14:00-14:30", "14:30-15:00", "15:00-15:30", "15:30-16:00",
	"16:00-16:30", "16:30-17:00", "17:00-17:30", "17:30-18:00",
}

// IsValidTimeSlot reports whether s is one of the fixed slots.
func IsValidTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// AvailableSlots returns the slots not present in booked, preserving
// grid order. Booked values outside the grid are ignored.
func AvailableSlots(booked []string) []string {
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b] = true
	}
	free := make([]string, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free
}

// FormatToken renders the daily queue token for the n-th appointment of
// the day (1-based): T001, T002, ...
func FormatToken(n int) string {
	return fmt.Sprintf("T%03d", n)
}

// FormatPatientID renders the human-readable patient identifier for the
// n-th registered patient (1-based): P0001, P0002, ...
func FormatPatientID(n int) string {
	return fmt.Sprintf("P%04d", n)
}

// FormatBillNumber renders the bill number for the n-th bill of the
// year (1-based), prefixed with the two-digit year: BL25001.
func FormatBillNumber(year, n int) string {
	return fmt.Sprintf("BL%02d%03d", year%100, n)
}

// Payment statuses derived from bill totals.
const (
	PaymentPending = "PENDING"
	PaymentPartial = "PARTIAL"
	PaymentPaid    = "PAID"
	PaymentOverdue = "OVERDUE"
)

// BillTotal computes the amount owed at bill creation. The total is
// fixed then; later payments never recompute it.
func BillTotal(consultationFee, procedureCharges, otherCharges, discount float64) float64 {
	return consultationFee + procedureCharges + otherCharges - discount
}

// DerivePaymentStatus maps running totals to a payment status: PAID
// once nothing is owed, PARTIAL while something has been paid, else
// PENDING. An unpaid bill past its due date is OVERDUE.
func DerivePaymentStatus(total, paid float64, dueDate *time.Time, now time.Time) string {
	balance := total - paid
	switch {
	case balance <= 0:
		return PaymentPaid
	case dueDate != nil && now.After(*dueDate):
		return PaymentOverdue
	case paid > 0:
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// CalculateAge returns whole years elapsed from dob to now. The age
// increments on the birthday itself, not the day before.
func CalculateAge(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// DayBounds returns the [start, end) interval covering the calendar day
// of t in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
