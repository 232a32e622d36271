package handler

import (
	"io"
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /payments のHTTP。台帳操作は管理者のみ、webhookは認証なし。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type CreatePaymentRequest struct {
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Gateway       string          `json:"gateway"`
	TransactionID *string         `json:"transaction_id"`
}

type UpdatePaymentRequest struct {
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id"`
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

type StripePaymentRequest struct {
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	// Stripeからの呼び出しなのでJWTは付かない
	e.POST("/webhooks/stripe", h.stripeWebhook)

	// ユーザー決済（注文の所有チェックはusecase側の注文参照に委ねる）
	u := e.Group("/payments")
	u.Use(middleware.AuthJWT(cfg))
	u.POST("/stripe", h.processStripe)

	a := e.Group("/admin/payments")
	a.Use(middleware.AuthJWT(cfg))
	a.Use(middleware.AdminRoleGuard())

	a.POST("", h.createPayment)
	a.GET("", h.listPayments)
	a.GET("/:id", h.getPayment)
	a.GET("/order/:id", h.listByOrder)
	a.PATCH("/:id/status", h.updateStatus)
	a.POST("/:id/refund", h.refund)
}

func (h *PaymentHandler) createPayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreatePayment(c.Request().Context(), usecase.CreatePaymentInput{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Gateway:       req.Gateway,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) getPayment(c echo.Context) error {
	paymentID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetPayment(c.Request().Context(), paymentID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) listByOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	outs, err := h.uc.ListByOrder(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"items": outs})
}

func (h *PaymentHandler) listPayments(c echo.Context) error {
	page, limit := pageLimit(c)

	outs, total, err := h.uc.List(c.Request().Context(), repo.PaymentListFilter{
		Page:          page,
		Limit:         limit,
		Status:        c.QueryParam("status"),
		PaymentMethod: c.QueryParam("payment_method"),
		Gateway:       c.QueryParam("gateway"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"items": outs, "total": total})
}

func (h *PaymentHandler) updateStatus(c echo.Context) error {
	paymentID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), paymentID, model.PaymentState(req.Status), req.TransactionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) refund(c echo.Context) error {
	paymentID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RefundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ProcessRefund(c.Request().Context(), usecase.RefundInput{
		PaymentID: paymentID,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) processStripe(c echo.Context) error {
	if _, ok := getUserIDFromContext(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req StripePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ProcessStripePayment(c.Request().Context(), usecase.StripePaymentInput{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) stripeWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	eventType := c.Request().Header.Get("Stripe-Event-Type")
	if err := h.uc.HandleWebhook(c.Request().Context(), eventType, payload); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
