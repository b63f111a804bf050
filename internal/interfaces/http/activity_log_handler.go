package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tms-settlements/internal/application/dto"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
)

// RunHistory historial de corridas de generación.
type RunHistory interface {
	History(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error)
}

// ActivityLogHandler auditoría de corridas (solo ADMIN).
type ActivityLogHandler struct {
	history RunHistory
}

// NewActivityLogHandler construye el handler.
func NewActivityLogHandler(history RunHistory) *ActivityLogHandler {
	return &ActivityLogHandler{history: history}
}

// List godoc
// @Summary      Historial de corridas de generación de liquidaciones
// @Tags         activity-logs
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.ActivityLogResponse
// @Router       /api/activity-logs [get]
func (h *ActivityLogHandler) List(c *fiber.Ctx) error {
	page := pageQuery(c)
	list, err := h.history.History(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err, "")
	}
	out := make([]dto.ActivityLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.ActivityLogResponse{
			ID:         l.ID,
			CompanyID:  l.CompanyID,
			UserID:     l.UserID,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Metadata:   l.Metadata,
			CreatedAt:  l.CreatedAt,
		})
	}
	return c.JSON(out)
}
