package chat

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-api/internal/platform/auth"
	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
	"github.com/clinichq/clinic-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	chat := api.Group("/chat")
	chat.GET("/conversations", h.ListConversations)
	chat.POST("/conversations", h.CreateConversation)
	chat.GET("/conversations/:id/messages", h.GetMessages)
	chat.POST("/conversations/:id/messages", h.SendMessage)
	chat.DELETE("/conversations/:id", h.DeleteConversation)
	chat.GET("/unread-count", h.UnreadCount)
	chat.GET("/available-doctors", h.AvailableDoctors, auth.RequireRole("patient"))
	chat.GET("/available-patients", h.AvailablePatients, auth.RequireRole("doctor"))
}

func (h *Handler) ListConversations(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateConversation(c echo.Context) error {
	var in CreateConversationInput
	if err := c.Bind(&in); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	conv, err := h.svc.CreateConversation(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, conv)
}

func (h *Handler) GetMessages(c echo.Context) error {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid conversation id")
	}
	pg := pagination.FromContext(c)
	userID := auth.UserIDFromContext(c.Request().Context())
	items, total, err := h.svc.GetMessages(c.Request().Context(), conversationID, userID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) SendMessage(c echo.Context) error {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid conversation id")
	}
	var body struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := c.Bind(&body); err != nil {
		return clinicerr.Validationf("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	m, err := h.svc.SendMessage(c.Request().Context(), conversationID, userID, body.Content, body.Type)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) DeleteConversation(c echo.Context) error {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return clinicerr.Validationf("invalid conversation id")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.DeleteConversation(c.Request().Context(), conversationID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnreadCount(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	count, err := h.svc.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"unread_count": count})
}

func (h *Handler) AvailableDoctors(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.AvailableDoctors(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AvailablePatients(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.AvailablePatients(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
