package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tms-settlements/internal/application/dto"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// NotificationInbox bandeja del usuario autenticado.
type NotificationInbox interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

// NotificationHandler notificaciones in-app (protegido).
type NotificationHandler struct {
	inbox NotificationInbox
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(inbox NotificationInbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List godoc
// @Summary      Mis notificaciones
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query  bool  false  "solo no leídas"
// @Param        limit   query  int   false  "default 20"
// @Param        offset  query  int   false  "default 0"
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page := pageQuery(c)
	list, err := h.inbox.List(c.UserContext(), GetUserID(c), c.QueryBool("unread", false), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err, "")
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path  string  true  "notification ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.inbox.MarkRead(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err, "notificación no encontrada")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
