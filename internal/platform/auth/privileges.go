package auth

// Privilege constants. Grouped by the functional area they guard.
const (
	// Dashboard
	PrivViewDashboard = "VIEW_DASHBOARD"

	// Patient Management
	PrivViewPatients   = "VIEW_PATIENTS"
	PrivCreatePatients = "CREATE_PATIENTS"
	PrivEditPatients   = "EDIT_PATIENTS"
	PrivDeletePatients = "DELETE_PATIENTS"

	// Appointments
	PrivViewAppointments   = "VIEW_APPOINTMENTS"
	PrivCreateAppointments = "CREATE_APPOINTMENTS"
	PrivEditAppointments   = "EDIT_APPOINTMENTS"
	PrivDeleteAppointments = "DELETE_APPOINTMENTS"
	PrivCancelAppointments = "CANCEL_APPOINTMENTS"

	// Consultations
	PrivViewConsultations    = "VIEW_CONSULTATIONS"
	PrivStartConsultation    = "START_CONSULTATION"
	PrivCompleteConsultation = "COMPLETE_CONSULTATION"
	PrivEditConsultations    = "EDIT_CONSULTATIONS"

	// Prescriptions
	PrivViewPrescriptions   = "VIEW_PRESCRIPTIONS"
	PrivCreatePrescriptions = "CREATE_PRESCRIPTIONS"
	PrivEditPrescriptions   = "EDIT_PRESCRIPTIONS"
	PrivDeletePrescriptions = "DELETE_PRESCRIPTIONS"
	PrivPrintPrescriptions  = "PRINT_PRESCRIPTIONS"

	// Investigations
	PrivViewInvestigations  = "VIEW_INVESTIGATIONS"
	PrivOrderInvestigations = "ORDER_INVESTIGATIONS"
	PrivEditInvestigations  = "EDIT_INVESTIGATIONS"
	PrivViewLabReports      = "VIEW_LAB_REPORTS"
	PrivUploadReports       = "UPLOAD_REPORTS"

	// Billing
	PrivViewBills          = "VIEW_BILLS"
	PrivCreateBills        = "CREATE_BILLS"
	PrivEditBills          = "EDIT_BILLS"
	PrivProcessPayments    = "PROCESS_PAYMENTS"
	PrivViewRevenueReports = "VIEW_REVENUE_REPORTS"

	// Reports
	PrivViewReports   = "VIEW_REPORTS"
	PrivExportData    = "EXPORT_DATA"
	PrivViewAnalytics = "VIEW_ANALYTICS"

	// User Management
	PrivViewUsers        = "VIEW_USERS"
	PrivCreateUsers      = "CREATE_USERS"
	PrivEditUsers        = "EDIT_USERS"
	PrivDeleteUsers      = "DELETE_USERS"
	PrivManagePrivileges = "MANAGE_PRIVILEGES"
	PrivResetPasswords   = "RESET_PASSWORDS"

	// System
	PrivBackupData     = "BACKUP_DATA"
	PrivRestoreData    = "RESTORE_DATA"
	PrivSystemSettings = "SYSTEM_SETTINGS"
	PrivViewAuditLogs  = "VIEW_AUDIT_LOGS"
)

// PrivilegeCategories groups every privilege by functional area, in
// display order.
var PrivilegeCategories = []struct {
	Name       string
	Privileges []string
}{
	{"Dashboard", []string{PrivViewDashboard}},
	{"Patient Management", []string{PrivViewPatients, PrivCreatePatients, PrivEditPatients, PrivDeletePatients}},
	{"Appointments", []string{PrivViewAppointments, PrivCreateAppointments, PrivEditAppointments, PrivDeleteAppointments, PrivCancelAppointments}},
	{"Consultations", []string{PrivViewConsultations, PrivStartConsultation, PrivCompleteConsultation, PrivEditConsultations}},
	{"Prescriptions", []string{PrivViewPrescriptions, PrivCreatePrescriptions, PrivEditPrescriptions, PrivDeletePrescriptions, PrivPrintPrescriptions}},
	{"Investigations", []string{PrivViewInvestigations, PrivOrderInvestigations, PrivEditInvestigations, PrivViewLabReports, PrivUploadReports}},
	{"Billing", []string{PrivViewBills, PrivCreateBills, PrivEditBills, PrivProcessPayments, PrivViewRevenueReports}},
	{"Reports", []string{PrivViewReports, PrivExportData, PrivViewAnalytics}},
	{"User Management", []string{PrivViewUsers, PrivCreateUsers, PrivEditUsers, PrivDeleteUsers, PrivManagePrivileges, PrivResetPasswords}},
	{"System", []string{PrivBackupData, PrivRestoreData, PrivSystemSettings, PrivViewAuditLogs}},
}

// AllPrivileges returns every known privilege in category order.
func AllPrivileges() []string {
	var out []string
	for _, cat := range PrivilegeCategories {
		out = append(out, cat.Privileges...)
	}
	return out
}

// IsValidPrivilege reports whether p is a known privilege constant.
func IsValidPrivilege(p string) bool {
	for _, cat := range PrivilegeCategories {
		for _, priv := range cat.Privileges {
			if priv == p {
				return true
			}
		}
	}
	return false
}

// DefaultRolePrivileges is the privilege set granted to new users of each
// role before any per-role or per-user overrides. ADMIN holds everything.
func DefaultRolePrivileges(role string) []string {
	switch role {
	case RoleAdmin:
		return AllPrivileges()
	case RoleDoctor:
		return []string{
			PrivViewDashboard,
			PrivViewPatients, PrivCreatePatients, PrivEditPatients,
			PrivViewAppointments, PrivCreateAppointments, PrivEditAppointments, PrivCancelAppointments,
			PrivViewConsultations, PrivStartConsultation, PrivCompleteConsultation, PrivEditConsultations,
			PrivViewPrescriptions, PrivCreatePrescriptions, PrivEditPrescriptions, PrivPrintPrescriptions,
			PrivViewInvestigations, PrivOrderInvestigations, PrivEditInvestigations, PrivViewLabReports,
			PrivViewBills,
			PrivViewReports,
		}
	case RoleNurse:
		return []string{
			PrivViewDashboard,
			PrivViewPatients, PrivEditPatients,
			PrivViewAppointments, PrivCreateAppointments, PrivEditAppointments,
			PrivViewConsultations, PrivStartConsultation,
			PrivViewPrescriptions,
			PrivViewInvestigations, PrivUploadReports, PrivViewLabReports,
		}
	case RoleReceptionist:
		return []string{
			PrivViewDashboard,
			PrivViewPatients, PrivCreatePatients, PrivEditPatients,
			PrivViewAppointments, PrivCreateAppointments, PrivEditAppointments, PrivCancelAppointments,
			PrivViewBills, PrivCreateBills, PrivProcessPayments,
		}
	default:
		return nil
	}
}
