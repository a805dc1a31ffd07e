package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cash_register_app/internal/core/ports/services"
	"github.com/SscSPs/cash_register_app/internal/dto"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// defaultUnlockRate is used when the configured rate cannot be parsed.
const defaultUnlockRate = "10-M"

// authHandler handles the PIN lock.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public lock routes. Unlock attempts are rate
// limited per client IP on top of the attempt counter of the lock itself.
func registerAuthRoutes(r *gin.Engine, rateFormat string, authService portssvc.AuthSvcFacade) {
	h := newAuthHandler(authService)

	rate, err := limiter.NewRateFromFormatted(rateFormat)
	if err != nil {
		slog.Default().Warn("Invalid unlock rate limit, using default",
			slog.String("rate", rateFormat), slog.String("default", defaultUnlockRate))
		rate, _ = limiter.NewRateFromFormatted(defaultUnlockRate)
	}
	unlockLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/auth")
	{
		auth.POST("/unlock", middleware.RateLimit(unlockLimiter, "unlock"), h.unlock)
		auth.GET("/status", h.status)
	}
}

// registerLockRoutes sets up the lock routes that need a valid token.
func registerLockRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade) {
	h := newAuthHandler(authService)
	rg.POST("/lock/reset", h.resetLock)
}

// unlock godoc
// @Summary Unlock the register
// @Description Checks the PIN and returns an access token. Too many wrong PINs block the lock.
// @Tags auth
// @Accept json
// @Produce json
// @Param unlock body dto.UnlockRequest true "PIN"
// @Success 200 {object} dto.UnlockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Wrong PIN"
// @Failure 423 {object} ErrorResponse "Lock blocked"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Router /auth/unlock [post]
func (h *authHandler) unlock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Unlock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.authService.Unlock(c.Request.Context(), req.PIN)
	if err != nil {
		respondError(c, logger, err, "Failed to unlock")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// status godoc
// @Summary Lock status
// @Description Reports whether the PIN lock is enabled and how many attempts are left.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LockStatus
// @Router /auth/status [get]
func (h *authHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.authService.Status(c.Request.Context()))
}

// resetLock godoc
// @Summary Reset the failed PIN counter
// @Tags auth
// @Produce json
// @Success 200 {object} dto.LockStatus
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /lock/reset [post]
func (h *authHandler) resetLock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.authService.ResetLock(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to reset the PIN lock")
		return
	}
	logger.Info("PIN lock reset")
	c.JSON(http.StatusOK, h.authService.Status(c.Request.Context()))
}
