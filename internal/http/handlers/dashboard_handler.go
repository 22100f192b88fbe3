package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annaclean/cleanmarket-backend/internal/http/handlers/common"
	"github.com/annaclean/cleanmarket-backend/internal/service"
)

// DashboardHandler предоставляет HTTP слой для отчётов админской панели.
type DashboardHandler struct {
	reports *service.ReportService
}

// NewDashboardHandler создаёт хэндлер.
func NewDashboardHandler(reports *service.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

// FrequentClients обрабатывает GET /dashboard/frequent-clients.
func (h *DashboardHandler) FrequentClients(c *gin.Context) {
	rows, err := h.reports.FrequentClients(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UncommittedClients обрабатывает GET /dashboard/uncommitted-clients.
func (h *DashboardHandler) UncommittedClients(c *gin.Context) {
	rows, err := h.reports.UncommittedClients(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ProspectiveClients обрабатывает GET /dashboard/prospective-clients.
func (h *DashboardHandler) ProspectiveClients(c *gin.Context) {
	rows, err := h.reports.ProspectiveClients(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// AcceptedQuotes обрабатывает GET /dashboard/accepted-quotes?month=&year=.
func (h *DashboardHandler) AcceptedQuotes(c *gin.Context) {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))

	report, err := h.reports.AcceptedQuotes(c.Request.Context(), month, year)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// LargestJob обрабатывает GET /dashboard/largest-job.
func (h *DashboardHandler) LargestJob(c *gin.Context) {
	row, err := h.reports.LargestJob(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	if row == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, row)
}

// OverdueBills обрабатывает GET /dashboard/overdue-bills.
func (h *DashboardHandler) OverdueBills(c *gin.Context) {
	rows, err := h.reports.OverdueBills(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// BadClients обрабатывает GET /dashboard/bad-clients.
func (h *DashboardHandler) BadClients(c *gin.Context) {
	rows, err := h.reports.BadClients(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GoodClients обрабатывает GET /dashboard/good-clients.
func (h *DashboardHandler) GoodClients(c *gin.Context) {
	rows, err := h.reports.GoodClients(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
