package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者向けのお知らせ一覧。
type NotificationHandler struct {
	uc *usecase.NotificationUsecase
}

func NewNotificationHandler(uc *usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/notifications")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/unread-count", h.unreadCount)
	g.GET("/:id", h.get)
	g.PATCH("/:id/read", h.markRead)
	g.PATCH("/read-all", h.markAllRead)
	g.DELETE("/:id", h.delete)
}

func (h *NotificationHandler) list(c echo.Context) error {
	page, limit := pageLimit(c)

	in := usecase.NotificationListInput{
		Page:     page,
		Limit:    limit,
		Type:     c.QueryParam("type"),
		Priority: c.QueryParam("priority"),
	}
	if v := c.QueryParam("read"); v != "" {
		read, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid read"})
		}
		in.Read = &read
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) get(c echo.Context) error {
	n, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) markRead(c echo.Context) error {
	if err := h.uc.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) markAllRead(c echo.Context) error {
	n, err := h.uc.MarkAllRead(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": n})
}

func (h *NotificationHandler) unreadCount(c echo.Context) error {
	n, err := h.uc.UnreadCount(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": n})
}

func (h *NotificationHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
