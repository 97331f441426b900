package admin

import "time"

// BackupVersion tags exported backup documents.
const BackupVersion = "1.0"

// ClinicSettings is the single persisted configuration row (id = 1).
type ClinicSettings struct {
	ClinicName             string    `db:"clinic_name" json:"clinic_name"`
	ClinicAddress          string    `db:"clinic_address" json:"clinic_address"`
	ClinicPhone            string    `db:"clinic_phone" json:"clinic_phone"`
	ClinicEmail            string    `db:"clinic_email" json:"clinic_email"`
	LicenseNumber          *string   `db:"license_number" json:"license_number,omitempty"`
	DefaultConsultationFee float64   `db:"default_consultation_fee" json:"default_consultation_fee"`
	WorkingHoursStart      string    `db:"working_hours_start" json:"working_hours_start"`
	WorkingHoursEnd        string    `db:"working_hours_end" json:"working_hours_end"`
	BreakStart             string    `db:"break_start" json:"break_start"`
	BreakEnd               string    `db:"break_end" json:"break_end"`
	SlotDurationMinutes    int       `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	TaxRate                float64   `db:"tax_rate" json:"tax_rate"`
	Currency               string    `db:"currency" json:"currency"`
	Timezone               string    `db:"timezone" json:"timezone"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultSettings mirrors the column defaults, returned whenever no row
// has been saved yet.
func DefaultSettings() *ClinicSettings {
	return &ClinicSettings{
		ClinicName:             "City Clinic",
		ClinicAddress:          "",
		ClinicPhone:            "",
		ClinicEmail:            "",
		DefaultConsultationFee: 500,
		WorkingHoursStart:      "09:00",
		WorkingHoursEnd:        "18:00",
		BreakStart:             "13:00",
		BreakEnd:               "14:00",
		SlotDurationMinutes:    30,
		TaxRate:                18,
		Currency:               "₹",
		Timezone:               "Asia/Kolkata",
	}
}

// Backup is the JSON document produced by a full data export. User rows
// carry "[REDACTED]" in place of password hashes.
type Backup struct {
	Timestamp time.Time                           `json:"timestamp"`
	Version   string                              `json:"version"`
	Data      map[string][]map[string]interface{} `json:"data"`
}
