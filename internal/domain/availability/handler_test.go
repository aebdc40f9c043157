package availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo, *mockRepo) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo), nil)
	return h, echo.New(), repo
}

func TestHandlerCreate(t *testing.T) {
	h, e, _ := newTestHandler()
	body := `{"doctor_id":"` + uuid.NewString() + `","date":"2026-09-10","start_time":"09:00","end_time":"12:00"}`
	req := httptest.NewRequest(http.MethodPost, "/doctor-availability", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var got Availability
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Error("expected id in response")
	}
}

func TestHandlerCreate_BadBody(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/doctor-availability", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestHandlerUpdate_BadID(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodPut, "/doctor-availability/abc", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := h.Update(c); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestHandlerGetSlots(t *testing.T) {
	h, e, repo := newTestHandler()
	doctorID := uuid.New()
	repo.windows[uuid.New()] = &Availability{
		ID: uuid.New(), DoctorID: doctorID,
		Date: "2026-09-10", StartTime: "09:00", EndTime: "10:00",
	}

	req := httptest.NewRequest(http.MethodGet, "/doctor-availability/slots/x/y", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("doctorId", "date")
	c.SetParamValues(doctorID.String(), "2026-09-10")

	if err := h.GetSlots(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got Slots
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.Available || len(got.TimeSlots) != 2 {
		t.Errorf("unexpected slots: %+v", got)
	}
}

func TestHandlerDelete(t *testing.T) {
	h, e, repo := newTestHandler()
	id := uuid.New()
	repo.windows[id] = &Availability{ID: id, DoctorID: uuid.New(), Date: "2026-09-10", StartTime: "09:00", EndTime: "10:00"}

	req := httptest.NewRequest(http.MethodDelete, "/doctor-availability/"+id.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
