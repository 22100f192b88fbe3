package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annaclean/cleanmarket-backend/internal/dto"
	"github.com/annaclean/cleanmarket-backend/internal/http/handlers/common"
	"github.com/annaclean/cleanmarket-backend/internal/service"
)

// BillHandler предоставляет HTTP слой для счетов и споров по ним.
type BillHandler struct {
	billing *service.BillingService
}

// NewBillHandler создаёт хэндлер.
func NewBillHandler(billing *service.BillingService) *BillHandler {
	return &BillHandler{billing: billing}
}

// Create обрабатывает POST /bills/create/:order_id.
func (h *BillHandler) Create(c *gin.Context) {
	orderID, err := common.ParseUUIDParam(c, "order_id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bill, err := h.billing.Issue(c.Request.Context(), orderID, req.Amount)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// ListMine обрабатывает GET /bills/mine.
func (h *BillHandler) ListMine(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	bills, err := h.billing.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, bills)
}

// ListAll обрабатывает GET /bills/all.
func (h *BillHandler) ListAll(c *gin.Context) {
	bills, err := h.billing.ListAll(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, bills)
}

// GetByOrder обрабатывает GET /bills/:id — счёт по идентификатору заказа.
func (h *BillHandler) GetByOrder(c *gin.Context) {
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

	bill, err := h.billing.GetForOrder(c.Request.Context(), orderID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

// Responses обрабатывает GET /bills/:id/responses — история спора по счёту,
// найденному по идентификатору заказа.
func (h *BillHandler) Responses(c *gin.Context) {
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

	bill, err := h.billing.GetForOrder(c.Request.Context(), orderID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	responses, err := h.billing.Responses(c.Request.Context(), bill.ID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// Pay обрабатывает POST /bills/:id/pay.
func (h *BillHandler) Pay(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	billID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.billing.Pay(c.Request.Context(), billID, clientID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "счёт оплачен", nil)
}

// Dispute обрабатывает POST /bills/:id/dispute.
func (h *BillHandler) Dispute(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	billID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.DisputeBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.billing.Dispute(c.Request.Context(), billID, clientID, req.Note); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "счёт оспорен", nil)
}

// CancelDispute обрабатывает POST /bills/:id/cancel.
func (h *BillHandler) CancelDispute(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	billID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.billing.CancelDispute(c.Request.Context(), billID, clientID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "спор отменён", nil)
}

// Respond обрабатывает POST /bills/:id/respond.
func (h *BillHandler) Respond(c *gin.Context) {
	billID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.RespondBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	response, err := h.billing.Respond(c.Request.Context(), billID, req.Note)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Revise обрабатывает POST /bills/:id/revise.
func (h *BillHandler) Revise(c *gin.Context) {
	billID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.ReviseBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.billing.Revise(c.Request.Context(), billID, req.NewAmount, req.Note); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "счёт пересмотрен", nil)
}
