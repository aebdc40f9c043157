package appointment

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-api/internal/platform/auth"
	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api, admin *echo.Group) {
	appt := api.Group("/appointment")
	appt.POST("/appointmentRequestForm", h.CreateRequest, auth.RequireRole("patient"))
	appt.GET("/appointmentRequests", h.ListRequests, auth.RequireRole("admin"))
	appt.GET("/appointments", h.ListOwn, auth.RequireRole("patient"))
	appt.PUT("/appointments/:id", h.Cancel, auth.RequireRole("patient", "admin"))
	appt.PUT("/appointments/:id/reschedule", h.Reschedule, auth.RequireRole("patient", "admin"))

	admin.GET("/appointment-requests", h.ListRequests, auth.RequireRole("admin"))
	admin.PUT("/appointment-requests/:id", h.Decide, auth.RequireRole("admin"))
	admin.GET("/dashboard-stats", h.DashboardStats, auth.RequireRole("admin"))
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var in CreateRequestInput
	if err := c.Bind(&in); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	req, err := h.svc.CreateRequest(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) ListRequests(c echo.Context) error {
	items, err := h.svc.ListRequests(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Decide(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid id")
	}
	var in DecideInput
	if err := c.Bind(&in); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	req, err := h.svc.Decide(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid id")
	}
	appt, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid id")
	}
	var body struct {
		Datetime time.Time `json:"appointment_datetime"`
	}
	if err := c.Bind(&body); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	appt, err := h.svc.Reschedule(c.Request().Context(), id, body.Datetime)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListOwn(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.ListByPatientUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.svc.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
