package identity

import (
	"net/http"

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

// RegisterRoutes wires the public doctor directory, the authenticated profile
// endpoints and the admin user directory.
func (h *Handler) RegisterRoutes(public, user, admin *echo.Group) {
	public.GET("/doctor/doctors", h.ListDoctors)

	user.GET("/profile", h.GetProfile)
	user.PUT("/profile", h.UpdateProfile)
	user.PUT("/password", h.ChangePassword)
	user.GET("/type-data", h.GetRoleRecord)

	admin.GET("/users", h.ListUsers, auth.RequireRole("admin"))
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	view, err := h.svc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var input UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	view, err := h.svc.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&body); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.ChangePassword(c.Request().Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// GetRoleRecord answers with the caller's role and its backing record.
func (h *Handler) GetRoleRecord(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	rec, err := h.svc.GetRoleRecord(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	items, err := h.svc.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListUsers(c echo.Context) error {
	items, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
