package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annaclean/cleanmarket-backend/internal/http/handlers/common"
	"github.com/annaclean/cleanmarket-backend/internal/service"
)

// OrderHandler предоставляет HTTP слой для заказов.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler создаёт хэндлер.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListMine обрабатывает GET /requests/orders — заказы текущего клиента.
func (h *OrderHandler) ListMine(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	orders, err := h.orders.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ListAll обрабатывает GET /requests/admin/orders.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// Get обрабатывает GET /requests/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orders.Get(c.Request.Context(), orderID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Complete обрабатывает POST /requests/orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orders.Complete(c.Request.Context(), orderID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "заказ завершён", nil)
}
