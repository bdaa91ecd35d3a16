package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// ScheduleController handles the dashboard, the calendar, meetings and tasks
type ScheduleController struct {
	dashboardService services.DashboardService
	meetingService   services.MeetingService
	taskService      services.TaskService
	logger           zerolog.Logger
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(
	dashboardService services.DashboardService,
	meetingService services.MeetingService,
	taskService services.TaskService,
	logger zerolog.Logger,
) *ScheduleController {
	return &ScheduleController{
		dashboardService: dashboardService,
		meetingService:   meetingService,
		taskService:      taskService,
		logger:           logger,
	}
}

// Dashboard godoc
// @Summary Today's meetings, tasks and unread messages
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Router /dashboard [get]
func (c *ScheduleController) Dashboard(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	resp, err := c.dashboardService.Dashboard(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Calendar godoc
// @Summary Upcoming meetings and pending tasks by bucket
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CalendarResponse}
// @Router /calendar [get]
func (c *ScheduleController) Calendar(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	resp, err := c.dashboardService.Calendar(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateMeeting godoc
// @Summary Schedule a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMeetingRequest true "Meeting"
// @Success 201 {object} dto.APIResponse{data=dto.MeetingResponse}
// @Failure 400 {object} dto.APIResponse
// @Router /meetings [post]
func (c *ScheduleController) CreateMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	req, ok := requestBody[dto.CreateMeetingRequest](ctx)
	if !ok {
		return
	}
	meeting, err := c.meetingService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to create meeting")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(meeting, DashboardPage))
}

// ListInviteeCandidates godoc
// @Summary Users that can be invited to a meeting
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserSummary}
// @Router /meetings/invitees [get]
func (c *ScheduleController) ListInviteeCandidates(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	users, err := c.meetingService.ListInviteeCandidates(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users))
}

// GetMeeting godoc
// @Summary Meeting detail
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meeting ID"
// @Success 200 {object} dto.APIResponse{data=dto.MeetingResponse}
// @Failure 403 {object} dto.APIResponse "Caller is neither requester nor invitee"
// @Failure 404 {object} dto.APIResponse
// @Router /meetings/{id} [get]
func (c *ScheduleController) GetMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetingID, ok := idParam(ctx, "id", "meeting")
	if !ok {
		return
	}
	meeting, err := c.meetingService.Get(ctx.Request.Context(), userID, meetingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(meeting))
}

// UpdateMeeting godoc
// @Summary Edit a meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meeting ID"
// @Param request body dto.UpdateMeetingRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.MeetingResponse}
// @Failure 403 {object} dto.APIResponse "Only the requester can edit"
// @Router /meetings/{id} [put]
func (c *ScheduleController) UpdateMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetingID, ok := idParam(ctx, "id", "meeting")
	if !ok {
		return
	}
	req, ok := requestBody[dto.UpdateMeetingRequest](ctx)
	if !ok {
		return
	}
	meeting, err := c.meetingService.Update(ctx.Request.Context(), userID, meetingID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(meeting, CalendarPage))
}

// DeleteMeeting godoc
// @Summary Delete a meeting
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Meeting ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse "Only the requester can delete"
// @Router /meetings/{id} [delete]
func (c *ScheduleController) DeleteMeeting(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	meetingID, ok := idParam(ctx, "id", "meeting")
	if !ok {
		return
	}
	if err := c.meetingService.Delete(ctx.Request.Context(), userID, meetingID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(dto.SuccessResponse{Message: "Meeting deleted"}, CalendarPage))
}

// CreateTask godoc
// @Summary Create a task
// @Description Mentors may pass assignTo with a student ID; for everyone else the field is ignored
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTaskRequest true "Task"
// @Success 201 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 400 {object} dto.APIResponse "Invalid date or assignee is not a student"
// @Failure 404 {object} dto.APIResponse "Assignee not found"
// @Router /tasks [post]
func (c *ScheduleController) CreateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	req, ok := requestBody[dto.CreateTaskRequest](ctx)
	if !ok {
		return
	}
	task, err := c.taskService.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to create task")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewRedirectResponse(task, DashboardPage))
}

// ListAssignees godoc
// @Summary Students the caller may assign tasks to
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AssigneesResponse}
// @Router /tasks/assignees [get]
func (c *ScheduleController) ListAssignees(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	resp, err := c.taskService.ListAssignees(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetTask godoc
// @Summary Task detail
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 403 {object} dto.APIResponse "Caller is neither owner nor creator"
// @Router /tasks/{id} [get]
func (c *ScheduleController) GetTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	taskID, ok := idParam(ctx, "id", "task")
	if !ok {
		return
	}
	task, err := c.taskService.Get(ctx.Request.Context(), userID, taskID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(task))
}

// UpdateTask godoc
// @Summary Edit a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 403 {object} dto.APIResponse "Only the creator can edit"
// @Router /tasks/{id} [put]
func (c *ScheduleController) UpdateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	taskID, ok := idParam(ctx, "id", "task")
	if !ok {
		return
	}
	req, ok := requestBody[dto.UpdateTaskRequest](ctx)
	if !ok {
		return
	}
	task, err := c.taskService.Update(ctx.Request.Context(), userID, taskID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(task, CalendarPage))
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse "Only the creator can delete"
// @Router /tasks/{id} [delete]
func (c *ScheduleController) DeleteTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	taskID, ok := idParam(ctx, "id", "task")
	if !ok {
		return
	}
	if err := c.taskService.Delete(ctx.Request.Context(), userID, taskID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewRedirectResponse(dto.SuccessResponse{Message: "Task deleted"}, CalendarPage))
}
