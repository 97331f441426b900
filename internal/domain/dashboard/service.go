package dashboard

import (
	"context"
	"time"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/auth"
)

// quickActions is the full shortcut catalog. Each user sees the subset
// their privileges allow.
var quickActions = []QuickAction{
	{Label: "Register Patient", Path: "/patients/new", Privilege: auth.PrivCreatePatients},
	{Label: "Book Appointment", Path: "/appointments/new", Privilege: auth.PrivCreateAppointments},
	{Label: "Start Consultation", Path: "/consultations", Privilege: auth.PrivStartConsultation},
	{Label: "Write Prescription", Path: "/prescriptions/new", Privilege: auth.PrivCreatePrescriptions},
	{Label: "Order Investigation", Path: "/investigations/new", Privilege: auth.PrivOrderInvestigations},
	{Label: "Create Bill", Path: "/billing/new", Privilege: auth.PrivCreateBills},
	{Label: "Manage Users", Path: "/admin/users", Privilege: auth.PrivViewUsers},
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx, s.now())
}

func (s *Service) Queue(ctx context.Context) ([]*QueueEntry, error) {
	return s.repo.Queue(ctx, s.now())
}

// QuickActions filters the catalog to the shortcuts the user may use.
// Admins see everything.
func (s *Service) QuickActions(user *auth.SessionUser) []QuickAction {
	out := make([]QuickAction, 0, len(quickActions))
	for _, a := range quickActions {
		if user.Role == auth.RoleAdmin || user.HasPrivilege(a.Privilege) {
			out = append(out, a)
		}
	}
	return out
}
