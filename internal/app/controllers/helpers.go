// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/middleware"
)

// APIPrefix is where every route is mounted
const APIPrefix = "/api/v1"

// Pages a client is sent to after a mutation
var (
	DashboardPage = APIPrefix + "/dashboard"
	CalendarPage  = APIPrefix + "/calendar"
	ProfilePage   = APIPrefix + "/profile"
	ForumPage     = APIPrefix + "/forum"
	HomePage      = APIPrefix + "/"
)

// ChatRoomPage is the conversation with username
func ChatRoomPage(username string) string {
	return APIPrefix + "/chat/" + url.PathEscape(username)
}

// PostPage is the detail page of a forum post
func PostPage(postID int64) string {
	return APIPrefix + "/forum/posts/" + strconv.FormatInt(postID, 10)
}

// currentUserID reads the caller set by the auth middleware and answers 401 when missing
func currentUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return 0, false
	}
	return userID, true
}

// idParam parses a positive int64 path parameter and answers 400 when it is not one
func idParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+label+" ID").
			WithDetails("ID must be a positive number").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// requestBody returns the JSON body bound by middleware.ValidateRequest
func requestBody[T any](ctx *gin.Context) (*T, bool) {
	body, ok := middleware.ValidatedBody[T](ctx)
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Request body is required")))
		return nil, false
	}
	return body, true
}

// localRedirect keeps target only when it stays on this host
func localRedirect(ctx *gin.Context, target, fallback string) string {
	if target == "" {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || (u.Host != "" && u.Host != ctx.Request.Host) || (u.Scheme != "" && u.Host == "") {
		return fallback
	}
	if u.Path == "" || u.Path[0] != '/' || (len(u.Path) > 1 && u.Path[1] == '/') {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
