package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/auth"
	"github.com/yigit/mentorhub/internal/pkg/presence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
}

func protectedRouter(jwt *auth.JWTService) *gin.Engine {
	m := NewAuthMiddleware(jwt, "/api/v1/auth/login", zerolog.Nop())
	r := gin.New()
	r.GET("/private", m.JWTAuth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.String(http.StatusOK, fmt.Sprint(id))
	})
	r.GET("/open", m.OptionalAuth(), func(c *gin.Context) {
		id, ok := GetUserID(c)
		c.String(http.StatusOK, fmt.Sprint(id, ok))
	})
	return r
}

func TestJWTAuthTokenSources(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.GenerateToken(&models.User{ID: 7, Username: "lia"})
	require.NoError(t, err)
	r := protectedRouter(jwt)

	cases := map[string]func(*http.Request){
		"bearer header": func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) },
		"raw header":    func(req *http.Request) { req.Header.Set("Authorization", token) },
		"cookie":        func(req *http.Request) { req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token}) },
		"query":         func(req *http.Request) { req.URL.RawQuery = "token=" + token },
	}
	for name, apply := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			apply(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "7", w.Body.String())
		})
	}
}

func TestJWTAuthSetsIdentityKeys(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.GenerateToken(&models.User{ID: 7, Username: "lia"})
	require.NoError(t, err)

	m := NewAuthMiddleware(jwt, "/api/v1/auth/login", zerolog.Nop())
	r := gin.New()
	r.GET("/whoami", m.JWTAuth(), func(c *gin.Context) {
		_, hasRole := c.Get("roleType")
		c.String(http.StatusOK, fmt.Sprint(c.GetInt64(ContextUserID), " ", c.GetString(ContextUsername), " ", hasRole))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "7 lia false", w.Body.String())
}

func TestJWTAuthRejects(t *testing.T) {
	r := protectedRouter(newJWT())

	t.Run("api client gets 401 with redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private?x=1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"redirect":"/api/v1/auth/login?next=%2Fprivate%3Fx%3D1"`)
	})

	t.Run("browser is redirected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/api/v1/auth/login?next=%2Fprivate", w.Header().Get("Location"))
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer a.b.c")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_005")
	})
}

func TestOptionalAuth(t *testing.T) {
	r := protectedRouter(newJWT())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0 false", w.Body.String())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperrors.ErrMeetingNotFound, http.StatusNotFound, "meeting not found"},
		{fmt.Errorf("wrap: %w", apperrors.NewForbiddenError("only the author can delete this")), http.StatusForbidden, "only the author can delete this"},
		{apperrors.NewValidationError("dueDate", "bad date"), http.StatusBadRequest, "bad date"},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, "email already exists"},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{apperrors.ErrAccountDisabled, http.StatusForbidden, "Account is disabled"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		status, detail := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, detail.Message)
	}

	_, detail := classify(apperrors.NewValidationError("dueDate", "bad date"))
	assert.Equal(t, "dueDate", detail.Field)
}

func TestTrackPresence(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.GenerateToken(&models.User{ID: 3, Username: "rafa"})
	require.NoError(t, err)

	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	tracker := presence.NewMemoryTracker(time.Minute)
	m := NewAuthMiddleware(jwt, "/login", zerolog.Nop())

	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/x", m.JWTAuth(), TrackPresence(tracker, func() time.Time { return now }, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	online, err := tracker.Online(req.Context(), now)
	require.NoError(t, err)
	assert.True(t, online[3])
}
