package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annaclean/cleanmarket-backend/internal/dto"
	"github.com/annaclean/cleanmarket-backend/internal/http/handlers/common"
	"github.com/annaclean/cleanmarket-backend/internal/service"
)

// QuoteHandler предоставляет HTTP слой для торга: предложения и переписка.
type QuoteHandler struct {
	quotes *service.QuoteService
}

// NewQuoteHandler создаёт хэндлер.
func NewQuoteHandler(quotes *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// Issue обрабатывает POST /requests/:id/quote и
// POST /requests/admin/request/:id/quote/update — оба создают новое
// предложение в истории торга.
func (h *QuoteHandler) Issue(c *gin.Context) {
	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.IssueQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.quotes.Issue(c.Request.Context(), service.IssueQuoteInput{
		RequestID:           requestID,
		AdjustedPrice:       req.AdjustedPrice,
		ScheduledTimeWindow: req.ScheduledTimeWindow,
		Note:                req.Note,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quote)
}

// ListForRequest обрабатывает GET /requests/:id/quotes.
func (h *QuoteHandler) ListForRequest(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	quotes, err := h.quotes.ListForRequest(c.Request.Context(), requestID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// Accept обрабатывает POST /requests/quote/:id/accept.
func (h *QuoteHandler) Accept(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	quoteID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.quotes.Accept(c.Request.Context(), quoteID, clientID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Counter обрабатывает POST /requests/quote/:id/counter.
func (h *QuoteHandler) Counter(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	quoteID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.CounterQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.quotes.Counter(c.Request.Context(), quoteID, clientID, req.Message)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// Cancel обрабатывает POST /requests/quote/:id/cancel.
func (h *QuoteHandler) Cancel(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	quoteID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.quotes.Cancel(c.Request.Context(), quoteID, clientID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "предложение отозвано", nil)
}

// SendMessage обрабатывает POST /requests/admin/request/:id/message и
// POST /requests/:id/message.
func (h *QuoteHandler) SendMessage(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.quotes.SendMessage(c.Request.Context(), requestID, clientID, common.IsAdmin(c), req.Text)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// Messages обрабатывает GET /requests/:id/messages.
func (h *QuoteHandler) Messages(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.quotes.Messages(c.Request.Context(), requestID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
