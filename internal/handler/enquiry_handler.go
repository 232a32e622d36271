package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 問い合わせ。作成は公開、閲覧・更新は管理者のみ。
type EnquiryHandler struct {
	uc *usecase.EnquiryUsecase
}

func NewEnquiryHandler(uc *usecase.EnquiryUsecase) *EnquiryHandler {
	return &EnquiryHandler{uc: uc}
}

type CreateEnquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type UpdateEnquiryStatusRequest struct {
	Status string `json:"status"`
}

func (h *EnquiryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/enquiries", h.create)

	g := e.Group("/admin/enquiries")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PATCH("/:id/status", h.updateStatus)
}

func (h *EnquiryHandler) create(c echo.Context) error {
	var req CreateEnquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateEnquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *EnquiryHandler) list(c echo.Context) error {
	page, limit := pageLimit(c)

	out, err := h.uc.List(c.Request().Context(), repo.EnquiryListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *EnquiryHandler) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *EnquiryHandler) updateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateEnquiryStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), id, model.EnquiryStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
