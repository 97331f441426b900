package consultation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func callAction(t *testing.T, id string, fn func(echo.Context) error) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/consultations/"+id+"/start", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return fn(c)
}

func TestStartHandler_UnknownIDIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	err := callAction(t, uuid.NewString(), h.Start)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", he.Code)
	}
}

func TestCompleteHandler_IllegalTransitionIsBadRequest(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	c := newConsultation()
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	// Completing a WAITING consultation is an illegal status change.
	err := callAction(t, c.ID.String(), h.Complete)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", he.Code)
	}
}
