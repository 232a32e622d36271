package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ordersのHTTP。ユーザー向けと管理者向けの両方を持つ。
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type AddressRequest struct {
	Name       string `json:"name"`
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Phone      string `json:"phone"`
}

func (r AddressRequest) toModel() model.Address {
	return model.Address{
		Name:       r.Name,
		PostalCode: r.PostalCode,
		Prefecture: r.Prefecture,
		City:       r.City,
		Line1:      r.Line1,
		Line2:      r.Line2,
		Phone:      r.Phone,
	}
}

type CreateOrderRequest struct {
	ShippingAddress AddressRequest  `json:"shipping_address"`
	BillingAddress  *AddressRequest `json:"billing_address"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.createOrder)
	g.GET("", h.listMyOrders)
	g.GET("/:id", h.getOrder)
	g.GET("/number/:number", h.getOrderByNumber)
	g.POST("/:id/cancel", h.cancelOrder)

	// 管理者向け
	a := e.Group("/admin/orders")
	a.Use(middleware.AuthJWT(cfg))
	a.Use(middleware.AdminRoleGuard())

	a.GET("", h.listAllOrders)
	a.PATCH("/:id/status", h.updateStatus)
	a.PATCH("/:id/payment-status", h.updatePaymentStatus)
}

func (h *OrderHandler) createOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CreateOrderInput{
		ShippingAddress: req.ShippingAddress.toModel(),
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}
	if req.BillingAddress != nil {
		billing := req.BillingAddress.toModel()
		in.BillingAddress = &billing
	}

	out, err := h.uc.CreateOrderFromCart(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMyOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit := pageLimit(c)
	outs, total, err := h.uc.ListUserOrders(c.Request().Context(), userID, usecase.ListOrdersInput{
		Page:          page,
		Limit:         limit,
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"items": outs, "total": total})
}

func (h *OrderHandler) getOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetOrderByID(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	// 他人の注文は見せない（管理者は /admin/orders を使う）
	if out.UserID != userID {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) getOrderByNumber(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetOrderByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return writeError(c, err)
	}

	if out.UserID != userID {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancelOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	existing, err := h.uc.GetOrderByID(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	if existing.UserID != userID {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listAllOrders(c echo.Context) error {
	page, limit := pageLimit(c)

	f := repo.OrderListFilter{
		Page:          page,
		Limit:         limit,
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
	}

	if v := c.QueryParam("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		f.UserID = &userID
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.To = &t
	}

	outs, total, err := h.uc.ListAllOrders(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"items": outs, "total": total})
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), orderID, model.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updatePaymentStatus(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdatePaymentStatus(c.Request().Context(), orderID, model.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
