package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prestaflow/lending_backend/internal/apperrors"
	portssvc "github.com/prestaflow/lending_backend/internal/core/ports/services"
	"github.com/prestaflow/lending_backend/internal/dto"
	"github.com/prestaflow/lending_backend/internal/middleware"
)

// authHandler handles credential resolution.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(authService portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: authService}
}

// login godoc
// @Summary Log in with username and password
// @Description Validates the credential and returns a signed token carrying the permission set
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid request format"
// @Failure 401 {object} handlers.ErrorResponse "Invalid username or password"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.Auth)
	auth := r.Group("/auth")
	auth.POST("/login", h.login)
}
