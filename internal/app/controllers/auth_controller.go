package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService  services.AuthService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a student or mentor account with its profile and signs the user in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.TokenResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 409 {object} dto.APIResponse "Username or email already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	req, ok := requestBody[dto.RegisterRequest](ctx)
	if !ok {
		return
	}

	tokenResponse, err := c.authService.Register(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Failed to register user")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setTokenCookie(ctx, tokenResponse.AccessToken, tokenResponse.ExpiresIn)
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(tokenResponse, DashboardPage))
}

// Login handles user login
// @Summary User login
// @Description Authenticates with a username or email, returns an access token and sets the access_token cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Param next query string false "Page to continue to after login"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 403 {object} dto.APIResponse "Account disabled"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	req, ok := requestBody[dto.LoginRequest](ctx)
	if !ok {
		return
	}

	tokenResponse, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", tokenResponse.User.ID).Msg("User logged in successfully")
	c.setTokenCookie(ctx, tokenResponse.AccessToken, tokenResponse.ExpiresIn)
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(tokenResponse, localRedirect(ctx, ctx.Query("next"), DashboardPage)))
}

// Logout clears the session cookie
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", c.cookieSecure, true)
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(dto.SuccessResponse{Message: "Logged out"}, HomePage))
}

func (c *AuthController) setTokenCookie(ctx *gin.Context, token string, expiresIn int) {
	if expiresIn <= 0 {
		expiresIn = int((24 * time.Hour).Seconds())
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, token, expiresIn, "/", "", c.cookieSecure, true)
}
