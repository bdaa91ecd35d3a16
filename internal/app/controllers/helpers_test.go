package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestLocalRedirect(t *testing.T) {
	c, _ := testContext("http://example.com/api/v1/forum")

	cases := map[string]string{
		"":                                  "/fallback",
		"/api/v1/forum?ordem=likes":         "/api/v1/forum?ordem=likes",
		"http://example.com/api/v1/profile": "/api/v1/profile",
		"https://evil.example.net/x":        "/fallback",
		"//evil.example.net/x":              "/fallback",
		"javascript:alert(1)":               "/fallback",
		"relative/path":                     "/fallback",
	}
	for target, want := range cases {
		assert.Equal(t, want, localRedirect(c, target, "/fallback"), target)
	}
}

func TestIDParam(t *testing.T) {
	c, w := testContext("/tasks/7")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	id, ok := idParam(c, "id", "task")
	assert.True(t, ok)
	assert.EqualValues(t, 7, id)

	c, w = testContext("/tasks/0")
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, ok = idParam(c, "id", "task")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid task ID")
}

func TestPages(t *testing.T) {
	assert.Equal(t, "/api/v1/chat/ana.souza", ChatRoomPage("ana.souza"))
	assert.Equal(t, "/api/v1/forum/posts/12", PostPage(12))
}

func TestCurrentUserIDMissing(t *testing.T) {
	c, w := testContext("/dashboard")
	_, ok := currentUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
