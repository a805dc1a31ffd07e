package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves the read side of the ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the ledger, dashboard and search routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listEntries)
		ledger.GET("/balance", h.getBalance)
		ledger.GET("/days/:date", h.daySummary)
		ledger.GET("/statistics", h.statistics)
	}
	rg.GET("/search", h.search)
}

// listEntries godoc
// @Summary List ledger entries
// @Description Lists entries newest first with token-based pagination
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size (max 500)"
// @Param nextToken query string false "Token from the previous page"
// @Param category query string false "Category filter"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), ownerID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getBalance godoc
// @Summary Get the balance
// @Description Returns the current balance, or the balance at the end of the given day
// @Tags ledger
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	var (
		resp *dto.BalanceResponse
		err  error
	)
	if raw := c.Query("date"); raw != "" {
		day, perr := domain.ParseDate(raw)
		if perr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: perr.Error()})
			return
		}
		resp, err = h.ledgerService.BalanceAtDate(c.Request.Context(), ownerID, day)
	} else {
		resp, err = h.ledgerService.GetBalance(c.Request.Context(), ownerID)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// daySummary godoc
// @Summary Day summary
// @Description Entries, income, expenses and closing balance of one day
// @Tags ledger
// @Produce json
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} accounting.DaySummary
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/days/{date} [get]
func (h *ledgerHandler) daySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	day, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.ledgerService.DaySummary(c.Request.Context(), ownerID, day)
	if err != nil {
		respondError(c, logger, err, "Failed to build day summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// statistics godoc
// @Summary Dashboard statistics
// @Description Monthly income and expense totals, this month's breakdown and open amounts
// @Tags ledger
// @Produce json
// @Param months query int false "Number of months (default 6, max 24)"
// @Success 200 {object} dto.StatisticsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/statistics [get]
func (h *ledgerHandler) statistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	months, err := intQuery(c, "months")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid months parameter"})
		return
	}

	stats, err := h.ledgerService.Statistics(c.Request.Context(), ownerID, months)
	if err != nil {
		respondError(c, logger, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// search godoc
// @Summary Global search
// @Description Searches ledger entries, invoices and advances
// @Tags ledger
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Maximum hits"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /search [get]
func (h *ledgerHandler) search(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
		return
	}

	resp, err := h.ledgerService.Search(c.Request.Context(), ownerID, c.Query("q"), limit)
	if err != nil {
		respondError(c, logger, err, "Failed to search")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// intQuery reads an optional integer query parameter; absent means 0.
func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// int64Param reads a numeric path parameter.
func int64Param(c *gin.Context, key string) (int64, error) {
	return strconv.ParseInt(c.Param(key), 10, 64)
}
