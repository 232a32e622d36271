package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// キーバリュー設定。管理者のみ。
type SettingsHandler struct {
	uc *usecase.SettingsUsecase
}

func NewSettingsHandler(uc *usecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

type SetSettingRequest struct {
	Value string `json:"value"`
}

func (h *SettingsHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/settings")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/:key", h.get)
	g.PUT("/:key", h.set)
	g.DELETE("/:key", h.delete)
}

func (h *SettingsHandler) list(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *SettingsHandler) get(c echo.Context) error {
	s, err := h.uc.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) set(c echo.Context) error {
	var req SetSettingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Set(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("key")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
