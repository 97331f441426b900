package identity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JayanathBuddhika/medical-practice-management/internal/platform/auth"
)

func newTestHandler(svc *Service) *Handler {
	return NewHandler(svc, nil, "test-secret", time.Hour, false)
}

func callUserHandler(t *testing.T, h *Handler, method, body, id string, fn func(echo.Context) error) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/admin/users/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return fn(c)
}

func TestUpdateUserHandler_LastAdminIsBadRequest(t *testing.T) {
	svc, users, _, _ := newTestService()
	h := newTestHandler(svc)
	admin := seedUser(t, users, "admin@clinic.local", "admin123", auth.RoleAdmin, true)

	err := callUserHandler(t, h, http.MethodPut, `{"is_active":false}`, admin.ID.String(), h.UpdateUser)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("deactivate last admin: status = %d, want 400", he.Code)
	}
}

func TestDeleteUserHandler_LastAdminIsBadRequest(t *testing.T) {
	svc, users, _, _ := newTestService()
	h := newTestHandler(svc)
	admin := seedUser(t, users, "admin@clinic.local", "admin123", auth.RoleAdmin, true)

	err := callUserHandler(t, h, http.MethodDelete, "", admin.ID.String(), h.DeleteUser)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("delete last admin: status = %d, want 400", he.Code)
	}
}
