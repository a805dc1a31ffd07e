package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// registerHandler handles HTTP requests that mutate the register.
type registerHandler struct {
	registerService portssvc.RegisterSvcFacade
}

func newRegisterHandler(rs portssvc.RegisterSvcFacade) *registerHandler {
	return &registerHandler{registerService: rs}
}

// registerRegisterRoutes registers the register and directory routes.
func registerRegisterRoutes(rg *gin.RouterGroup, registerService portssvc.RegisterSvcFacade) {
	h := newRegisterHandler(registerService)

	register := rg.Group("/register")
	{
		register.GET("", h.getRegister)
		register.POST("/commit", h.commitRegistration)
		register.PUT("/balance", h.setBalance)
		register.POST("/reset", h.reset)
		register.DELETE("/entries/:entryID", h.deleteEntry)
	}

	directories := rg.Group("/directories/:kind")
	{
		directories.GET("", h.listDirectory)
		directories.POST("", h.addDirectoryName)
		directories.PUT("/:name", h.renameDirectoryName)
		directories.DELETE("/:name", h.deleteDirectoryName)
	}
}

// getRegister godoc
// @Summary Get the register
// @Description Returns the whole register of the authenticated shop
// @Tags register
// @Produce json
// @Success 200 {object} domain.Register
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /register [get]
func (h *registerHandler) getRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	reg, err := h.registerService.GetRegister(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to load register")
		return
	}
	c.JSON(http.StatusOK, reg)
}

// commitRegistration godoc
// @Summary Register till readings and expenses
// @Description Applies every till row and pending expense in one step. Either all rows are applied or none.
// @Tags register
// @Accept json
// @Produce json
// @Param registration body dto.RegistrationRequest true "Till rows and expenses"
// @Success 201 {object} dto.RegistrationResult
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Nothing to register"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /register/commit [post]
func (h *registerHandler) commitRegistration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CommitRegistration", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	logger.Info("Received registration", slog.Int("tills", len(req.Tills)), slog.Int("expenses", len(req.Expenses)))
	result, err := h.registerService.CommitRegistration(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to commit registration")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// setBalance godoc
// @Summary Override the cash balance
// @Description Sets the balance without adding a ledger entry
// @Tags register
// @Accept json
// @Produce json
// @Param balance body dto.SetBalanceRequest true "New balance"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /register/balance [put]
func (h *registerHandler) setBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}

	balance, err := h.registerService.SetBalance(c.Request.Context(), ownerID, req.Balance)
	if err != nil {
		respondError(c, logger, err, "Failed to set balance")
		return
	}
	logger.Info("Balance overridden", slog.String("balance", balance.String()))
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// reset godoc
// @Summary Reset the register
// @Description Wipes the ledger, invoices, advances and directories
// @Tags register
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /register/reset [post]
func (h *registerHandler) reset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	if err := h.registerService.Reset(c.Request.Context(), ownerID); err != nil {
		respondError(c, logger, err, "Failed to reset register")
		return
	}
	logger.Warn("Register reset")
	c.Status(http.StatusNoContent)
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Description Removes the entry and reverses its effect on the balance
// @Tags register
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.DeleteEntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /register/entries/{entryID} [delete]
func (h *registerHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	resp, err := h.registerService.DeleteEntry(c.Request.Context(), ownerID, entryID)
	if err != nil {
		respondError(c, logger, err, "Failed to delete entry")
		return
	}
	logger.Info("Ledger entry deleted")
	c.JSON(http.StatusOK, resp)
}

// listDirectory godoc
// @Summary List a directory
// @Description Lists the known suppliers, employees, recurring costs or custom categories
// @Tags directories
// @Produce json
// @Param kind path string true "suppliers, salaries, recurring or custom"
// @Success 200 {object} dto.DirectoryResponse
// @Failure 400 {object} ErrorResponse "Unknown directory"
// @Security BearerAuth
// @Router /directories/{kind} [get]
func (h *registerHandler) listDirectory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	kind := domain.DirectoryKind(c.Param("kind"))

	names, err := h.registerService.ListDirectory(c.Request.Context(), ownerID, kind)
	if err != nil {
		respondError(c, logger, err, "Failed to list directory")
		return
	}
	c.JSON(http.StatusOK, dto.DirectoryResponse{Kind: kind, Names: names})
}

// addDirectoryName godoc
// @Summary Add a name to a directory
// @Tags directories
// @Accept json
// @Produce json
// @Param kind path string true "Directory kind"
// @Param name body dto.DirectoryNameRequest true "Name"
// @Success 201 {object} dto.DirectoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Name already present"
// @Security BearerAuth
// @Router /directories/{kind} [post]
func (h *registerHandler) addDirectoryName(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DirectoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddDirectoryName", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	kind := domain.DirectoryKind(c.Param("kind"))

	names, err := h.registerService.AddDirectoryName(c.Request.Context(), ownerID, kind, req.Name)
	if err != nil {
		respondError(c, logger, err, "Failed to add name")
		return
	}
	c.JSON(http.StatusCreated, dto.DirectoryResponse{Kind: kind, Names: names})
}

// renameDirectoryName godoc
// @Summary Rename a directory entry
// @Tags directories
// @Accept json
// @Produce json
// @Param kind path string true "Directory kind"
// @Param name path string true "Current name"
// @Param rename body dto.RenameDirectoryRequest true "New name"
// @Success 200 {object} dto.DirectoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /directories/{kind}/{name} [put]
func (h *registerHandler) renameDirectoryName(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RenameDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RenameDirectoryName", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	kind := domain.DirectoryKind(c.Param("kind"))

	names, err := h.registerService.RenameDirectoryName(c.Request.Context(), ownerID, kind, c.Param("name"), req.NewName)
	if err != nil {
		respondError(c, logger, err, "Failed to rename name")
		return
	}
	c.JSON(http.StatusOK, dto.DirectoryResponse{Kind: kind, Names: names})
}

// deleteDirectoryName godoc
// @Summary Remove a name from a directory
// @Tags directories
// @Produce json
// @Param kind path string true "Directory kind"
// @Param name path string true "Name"
// @Success 200 {object} dto.DirectoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /directories/{kind}/{name} [delete]
func (h *registerHandler) deleteDirectoryName(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	kind := domain.DirectoryKind(c.Param("kind"))

	names, err := h.registerService.DeleteDirectoryName(c.Request.Context(), ownerID, kind, c.Param("name"))
	if err != nil {
		respondError(c, logger, err, "Failed to delete name")
		return
	}
	c.JSON(http.StatusOK, dto.DirectoryResponse{Kind: kind, Names: names})
}
