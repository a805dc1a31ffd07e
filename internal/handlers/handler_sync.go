package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// syncHandler exposes the remote mirror.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

func newSyncHandler(ss portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{syncService: ss}
}

func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.status)
		sync.POST("/push", h.push)
		sync.POST("/pull", h.pull)
		sync.POST("/force-pull", h.forcePull)
	}
}

// status godoc
// @Summary Remote sync status
// @Tags sync
// @Produce json
// @Success 200 {object} domain.SyncStatus
// @Security BearerAuth
// @Router /sync/status [get]
func (h *syncHandler) status(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.syncService.Status(ownerID))
}

// push godoc
// @Summary Push the register to the remote store
// @Tags sync
// @Produce json
// @Success 200 {object} domain.SyncStatus
// @Failure 503 {object} ErrorResponse "Remote store unavailable"
// @Security BearerAuth
// @Router /sync/push [post]
func (h *syncHandler) push(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	if err := h.syncService.Push(c.Request.Context(), ownerID); err != nil {
		respondError(c, logger, err, "Failed to push register")
		return
	}
	c.JSON(http.StatusOK, h.syncService.Status(ownerID))
}

// pull godoc
// @Summary Pull from the remote store
// @Description Keeps the side with more ledger entries and pushes local data when it wins
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncResult
// @Failure 503 {object} ErrorResponse "Remote store unavailable"
// @Security BearerAuth
// @Router /sync/pull [post]
func (h *syncHandler) pull(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	result, err := h.syncService.Pull(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to pull register")
		return
	}
	c.JSON(http.StatusOK, result)
}

// forcePull godoc
// @Summary Replace the register with the remote copy
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncResult
// @Failure 404 {object} ErrorResponse "No remote copy"
// @Failure 503 {object} ErrorResponse "Remote store unavailable"
// @Security BearerAuth
// @Router /sync/force-pull [post]
func (h *syncHandler) forcePull(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerOrAbort(c, logger)
	if !ok {
		return
	}
	result, err := h.syncService.ForcePull(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to pull register")
		return
	}
	logger.Warn("Register replaced with the remote copy")
	c.JSON(http.StatusOK, result)
}
