package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// Stats is the front-page summary card data.
type Stats struct {
	TotalPatients        int     `json:"total_patients"`
	TodayAppointments    int     `json:"today_appointments"`
	WaitingConsultations int     `json:"waiting_consultations"`
	CompletedToday       int     `json:"completed_today"`
	PendingBills         int     `json:"pending_bills"`
	TodayRevenue         float64 `json:"today_revenue"`
	TotalRevenue         float64 `json:"total_revenue"`
}

// QueueEntry is one row of the live consultation queue.
type QueueEntry struct {
	ConsultationID uuid.UUID  `json:"consultation_id"`
	TokenNumber    string     `json:"token_number"`
	PatientName    string     `json:"patient_name"`
	PatientNumber  string     `json:"patient_number"`
	DoctorName     string     `json:"doctor_name"`
	Status         string     `json:"status"`
	ScheduledTime  *time.Time `json:"scheduled_time,omitempty"`
}

// QuickAction is a shortcut offered on the dashboard, shown only to
// users holding its privilege.
type QuickAction struct {
	Label     string `json:"label"`
	Path      string `json:"path"`
	Privilege string `json:"-"`
}
