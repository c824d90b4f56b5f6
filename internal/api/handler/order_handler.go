package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// OrderHandler is a placeholder until orders are persisted.
type OrderHandler struct{}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// List always answers with an empty list.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Success      200  {object}  orderListResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, orderListResponse{
		Success: true,
		Message: "Orders endpoint - coming soon",
		Data:    []any{},
	})
}
