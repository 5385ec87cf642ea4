package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acroconnect/internal/app/models/dto"
	"github.com/yigit/acroconnect/internal/app/services"
	"github.com/yigit/acroconnect/internal/middleware"
)

// AuthController issues and rotates token pairs
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// ObtainToken exchanges credentials for an access/refresh pair
// @Summary Obtain a token pair
// @Description The username field accepts a username or an email address.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.TokenObtainRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenPairResponse} "Token pair issued"
// @Failure 400 {object} dto.ErrorResponse "Missing username or password"
// @Failure 401 {object} dto.ErrorResponse "No active account found with the given credentials."
// @Router /token/ [post]
func (c *AuthController) ObtainToken(ctx *gin.Context) {
	var req dto.TokenObtainRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	pair, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.logger.Info().Str("identifier", req.Username).Msg("Login rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, pair)
}

// RefreshToken rotates a refresh token into a new pair
// @Summary Refresh a token pair
// @Description The presented refresh token is revoked and a new pair is returned.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.TokenRefreshRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenPairResponse} "Token pair issued"
// @Failure 400 {object} dto.ErrorResponse "Missing refresh token"
// @Failure 401 {object} dto.ErrorResponse "Token is invalid or expired"
// @Router /token/refresh/ [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.TokenRefreshRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	pair, err := c.authService.Refresh(ctx.Request.Context(), req.Refresh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, pair)
}
