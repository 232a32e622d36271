package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラー種別をHTTPステータスへ対応付ける
func writeError(c echo.Context, err error) error {
	ae, ok := usecase.AsAppError(err)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	status := http.StatusInternalServerError
	switch ae.Kind {
	case usecase.KindNotFound:
		status = http.StatusNotFound
	case usecase.KindInvalidInput, usecase.KindInvalidState, usecase.KindInvalidAmount,
		usecase.KindEmptyCart, usecase.KindUnavailable:
		status = http.StatusBadRequest
	case usecase.KindConflict:
		status = http.StatusConflict
	case usecase.KindUnauthorized:
		status = http.StatusUnauthorized
	case usecase.KindForbidden:
		status = http.StatusForbidden
	case usecase.KindTransactionFailure, usecase.KindInternal:
		status = http.StatusInternalServerError
	}

	return c.JSON(status, ErrorResponse{Error: ae.Message})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	userID, ok := v.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// ?page= ?limit= を読む（不正値はデフォルトに落とす）
func pageLimit(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
