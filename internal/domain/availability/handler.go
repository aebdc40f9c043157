package availability

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-api/internal/domain/identity"
	"github.com/clinichq/clinic-api/internal/platform/auth"
	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

// DoctorLookup resolves the doctor record of the calling user.
type DoctorLookup interface {
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*identity.Doctor, error)
}

type Handler struct {
	svc     *Service
	doctors DoctorLookup
}

func NewHandler(svc *Service, doctors DoctorLookup) *Handler {
	return &Handler{svc: svc, doctors: doctors}
}

func (h *Handler) RegisterRoutes(api, user *echo.Group) {
	api.GET("/doctor-availability", h.ListAll)
	api.GET("/doctor-availability/doctor/:doctorId", h.ListByDoctor)
	api.GET("/doctor-availability/slots/:doctorId/:date", h.GetSlots)

	write := api.Group("/doctor-availability", auth.RequireRole("doctor", "admin"))
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)
	write.DELETE("/:id", h.Delete)

	user.GET("/doctor-availability", h.ListOwn, auth.RequireRole("doctor"))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	a, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid id")
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	a, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetSlots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return clinicerr.Validationf("invalid doctor id")
	}
	slots, err := h.svc.GetSlots(c.Request().Context(), doctorID, c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) ListAll(c echo.Context) error {
	items, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListByDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return clinicerr.Validationf("invalid doctor id")
	}
	items, err := h.svc.ListByDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListOwn returns the calling doctor's windows.
func (h *Handler) ListOwn(c echo.Context) error {
	ctx := c.Request().Context()
	doctor, err := h.doctors.GetDoctorByUserID(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	items, err := h.svc.ListByDoctor(ctx, doctor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
