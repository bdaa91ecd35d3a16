package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
)

// TaskService manages tasks and mentor assignments
type TaskService interface {
	Create(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Get(ctx context.Context, userID, taskID int64) (*dto.TaskResponse, error)
	Update(ctx context.Context, userID, taskID int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userID, taskID int64) error
	ListAssignees(ctx context.Context, userID int64) (*dto.AssigneesResponse, error)
	ListToday(ctx context.Context, userID int64) ([]dto.TaskResponse, error)
	ListPending(ctx context.Context, userID int64) (dto.TaskBuckets, error)
}

type taskServiceImpl struct {
	taskRepo repositories.ITaskRepository
	userRepo repositories.IUserRepository
	authz    *auth.AuthorizationService
	clock    Clock
	logger   zerolog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repositories.ITaskRepository,
	userRepo repositories.IUserRepository,
	authz *auth.AuthorizationService,
	clock Clock,
	logger zerolog.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo: taskRepo,
		userRepo: userRepo,
		authz:    authz,
		clock:    clock,
		logger:   logger,
	}
}

// Create stores a task. The caller is always the creator; mentors may name a student as owner.
func (s *taskServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	due, err := helpers.ParseDate(req.DueDate)
	if err != nil {
		return nil, apperrors.NewValidationError("dueDate", err.Error())
	}

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.authz.ResolveTaskOwner(ctx, actor, req.AssignTo)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:     strings.TrimSpace(req.Title),
		Info:      strings.TrimSpace(req.Info),
		DueDate:   due,
		OwnerID:   ownerID,
		CreatorID: actor.ID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to create task")
		return nil, err
	}

	s.logger.Info().Int64("taskID", task.ID).Int64("ownerID", ownerID).Int64("creatorID", actor.ID).Msg("Task created")
	return s.respond(ctx, userID, task)
}

// Get returns a task the caller owns or created
func (s *taskServiceImpl) Get(ctx context.Context, userID, taskID int64) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanViewTask(userID, task); err != nil {
		return nil, err
	}
	return s.respond(ctx, userID, task)
}

// Update edits a task. Only the creator may do this.
func (s *taskServiceImpl) Update(ctx context.Context, userID, taskID int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanModifyTask(userID, task); err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Info != nil {
		task.Info = strings.TrimSpace(*req.Info)
	}
	if req.DueDate != nil {
		due, err := helpers.ParseDate(*req.DueDate)
		if err != nil {
			return nil, apperrors.NewValidationError("dueDate", err.Error())
		}
		task.DueDate = due
	}
	if req.Done != nil {
		task.Done = *req.Done
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		s.logger.Warn().Err(err).Int64("taskID", taskID).Msg("Failed to update task")
		return nil, err
	}

	s.logger.Info().Int64("taskID", taskID).Msg("Task updated")
	return s.respond(ctx, userID, task)
}

// Delete removes a task. Only the creator may do this.
func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID int64) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authz.CanModifyTask(userID, task); err != nil {
		s.logger.Warn().Int64("userID", userID).Int64("taskID", taskID).Msg("Task delete denied")
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}
	s.logger.Info().Int64("taskID", taskID).Msg("Task deleted")
	return nil
}

// ListAssignees returns the students a mentor may assign to. Other roles get an empty list.
func (s *taskServiceImpl) ListAssignees(ctx context.Context, userID int64) (*dto.AssigneesResponse, error) {
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanAssignTasks(actor) {
		return &dto.AssigneesResponse{CanAssign: false, Users: []dto.UserSummary{}}, nil
	}
	students, err := s.userRepo.ListByRole(ctx, models.RoleStudent, true)
	if err != nil {
		return nil, err
	}
	return &dto.AssigneesResponse{CanAssign: true, Users: dto.ToUserSummaries(students)}, nil
}

// ListToday returns every visible task due today, done or not
func (s *taskServiceImpl) ListToday(ctx context.Context, userID int64) ([]dto.TaskResponse, error) {
	tasks, err := s.list(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0)
	for _, t := range tasks {
		if models.TaskBucket(t.Bucket) == models.TaskBucketToday {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListPending groups the visible unfinished tasks into today, future and overdue
func (s *taskServiceImpl) ListPending(ctx context.Context, userID int64) (dto.TaskBuckets, error) {
	buckets := dto.NewTaskBuckets()
	tasks, err := s.list(ctx, userID, true)
	if err != nil {
		return buckets, err
	}
	for _, t := range tasks {
		buckets.Add(t)
	}
	return buckets, nil
}

func (s *taskServiceImpl) list(ctx context.Context, userID int64, pendingOnly bool) ([]dto.TaskResponse, error) {
	tasks, err := s.taskRepo.ListVisible(ctx, userID, pendingOnly)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, tasks...); err != nil {
		return nil, err
	}
	today := s.clock.Today()
	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.ToTaskResponse(t, userID, today))
	}
	return out, nil
}

func (s *taskServiceImpl) respond(ctx context.Context, userID int64, task *models.Task) (*dto.TaskResponse, error) {
	if err := s.hydrate(ctx, task); err != nil {
		return nil, err
	}
	resp := dto.ToTaskResponse(task, userID, s.clock.Today())
	return &resp, nil
}

// hydrate attaches owner and creator
func (s *taskServiceImpl) hydrate(ctx context.Context, tasks ...*models.Task) error {
	ids := make([]int64, 0, 2*len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.OwnerID, t.CreatorID)
	}
	users, err := loadUsers(ctx, s.userRepo, ids...)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		t.Owner = users[t.OwnerID]
		t.Creator = users[t.CreatorID]
	}
	return nil
}
