package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/middleware"
	"github.com/yigit/mentorhub/internal/pkg/presence"
)

// Pinger is satisfied by the database handle
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageController serves the public informational endpoints
type PageController struct {
	db       Pinger
	presence presence.Tracker
	logger   zerolog.Logger
}

// NewPageController creates a new PageController. db may be nil for the in-memory store.
func NewPageController(db Pinger, tracker presence.Tracker, logger zerolog.Logger) *PageController {
	return &PageController{db: db, presence: tracker, logger: logger}
}

// Home sends signed-in users to their dashboard
// @Summary Home
// @Tags pages
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StaticPageResponse}
// @Success 303 "Authenticated callers are sent to the dashboard"
// @Router / [get]
func (c *PageController) Home(ctx *gin.Context) {
	if _, ok := middleware.GetUserID(ctx); ok {
		ctx.Redirect(http.StatusSeeOther, DashboardPage)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StaticPageResponse{
		Title: "MentorHub",
		Sections: []string{
			"Connect with mentors who have walked the path you are starting.",
			"Schedule meetings, track tasks and talk in the community forum.",
		},
	}))
}

// About describes the project
// @Summary Who we are
// @Tags pages
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StaticPageResponse}
// @Router /about [get]
func (c *PageController) About(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StaticPageResponse{
		Title: "Who we are",
		Sections: []string{
			"MentorHub brings students and experienced professionals together.",
			"Mentors share their time through meetings, assigned tasks and forum answers.",
			"Students keep their plans in one calendar and ask for help when they need it.",
		},
	}))
}

// Health reports whether the database answers
// @Summary Health check
// @Tags pages
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *PageController) Health(ctx *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Database: "memory", Presence: "none"}
	if c.presence != nil {
		resp.Presence = c.presence.Name()
	}

	status := http.StatusOK
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			c.logger.Error().Err(err).Msg("Database health check failed")
			resp.Status, resp.Database = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	ctx.JSON(status, dto.APIResponse{
		Success:   status == http.StatusOK,
		Data:      resp,
		Timestamp: time.Now(),
	})
}
