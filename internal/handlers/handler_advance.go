package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type advanceHandler struct {
	advanceService portssvc.AdvanceSvcFacade
}

func newAdvanceHandler(as portssvc.AdvanceSvcFacade) *advanceHandler {
	return &advanceHandler{advanceService: as}
}

func registerAdvanceRoutes(rg *gin.RouterGroup, advanceService portssvc.AdvanceSvcFacade) {
	h := newAdvanceHandler(advanceService)

	advances := rg.Group("/advances")
	{
		advances.GET("", h.listAdvances)
		advances.POST("/:advanceID/repay", h.repayAdvance)
	}
}

// listAdvances godoc
// @Summary List cash advances
// @Tags advances
// @Produce json
// @Param filter query string false "open, repaid or all"
// @Param person query string false "Person name"
// @Success 200 {object} dto.ListAdvancesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances [get]
func (h *advanceHandler) listAdvances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAdvancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAdvances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	resp, err := h.advanceService.ListAdvances(c.Request.Context(), ownerID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list advances")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// repayAdvance godoc
// @Summary Repay a cash advance
// @Description Returns the advanced amount to the till. Repaying twice changes nothing.
// @Tags advances
// @Produce json
// @Param advanceID path int true "Advance ID"
// @Success 200 {object} dto.RepayAdvanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /advances/{advanceID}/repay [post]
func (h *advanceHandler) repayAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	advanceID, err := int64Param(c, "advanceID")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid advance ID"})
		return
	}

	resp, err := h.advanceService.RepayAdvance(c.Request.Context(), ownerID, advanceID)
	if err != nil {
		respondError(c, logger, err, "Failed to repay advance")
		return
	}
	logger.Info("Advance repaid", slog.Int64("advance_id", advanceID), slog.Bool("already_repaid", resp.AlreadyRepaid))
	c.JSON(http.StatusOK, resp)
}
