package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextUserID   = "userID"
	ContextUsername = "username"

	// AccessTokenCookie carries the JWT for browser clients
	AccessTokenCookie = "access_token"
)

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
	loginPath  string
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. loginPath is where
// unauthenticated browser requests are sent.
func NewAuthMiddleware(jwtService *auth.JWTService, loginPath string, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		loginPath:  loginPath,
		logger:     logger,
	}
}

// JWTAuth requires a valid token. Browsers are redirected to the login page,
// API clients get 401 with the login URL in the envelope.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			m.reject(c, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing"))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}
			m.logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected token")
			m.reject(c, dto.NewErrorDetail(errorCode, "Authentication failed").
				WithDetails(errorDetails).
				WithSeverity(dto.ErrorSeverityError))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and never rejects
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := m.jwtService.ValidateAndExtractClaims(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// LoginURL returns the login page with next set to the requested path
func (m *AuthMiddleware) LoginURL(next string) string {
	return LoginURL(m.loginPath, next)
}

func (m *AuthMiddleware) reject(c *gin.Context, detail *dto.ErrorDetail) {
	next := c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		next += "?" + c.Request.URL.RawQuery
	}
	loginURL := m.LoginURL(next)

	if wantsHTML(c) {
		c.Redirect(http.StatusFound, loginURL)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorRedirectResponse(detail, loginURL))
}

// LoginURL joins the login path and the next parameter
func LoginURL(loginPath, next string) string {
	if next == "" {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
}

// tokenFromRequest looks in the Authorization header, then the cookie, then
// the token query parameter used by websocket clients
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	for _, key := range []string{"token", "authorization"} {
		if q := c.Query(key); q != "" {
			return strings.TrimPrefix(q, "Bearer ")
		}
	}
	return ""
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// GetUserID returns the authenticated user's ID
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
