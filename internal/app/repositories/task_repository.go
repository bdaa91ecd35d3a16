package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

var taskColumns = []string{"id", "title", "info", "due_date", "done", "owner_id", "creator_id", "created_at", "updated_at"}

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Info, &t.DueDate, &t.Done, &t.OwnerID, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func visibleTasksQuery(userID int64, pendingOnly bool) squirrel.SelectBuilder {
	q := psql.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Or{squirrel.Eq{"owner_id": userID}, squirrel.Eq{"creator_id": userID}}).
		OrderBy("due_date ASC", "id ASC")
	if pendingOnly {
		q = q.Where(squirrel.Eq{"done": false})
	}
	return q
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	sql, args, err := psql.Insert("tasks").
		Columns("title", "info", "due_date", "done", "owner_id", "creator_id").
		Values(t.Title, t.Info, t.DueDate, t.Done, t.OwnerID, t.CreatorID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create task query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating task: %w", err)
	}
	return nil
}

// GetByID retrieves a task
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	sql, args, err := psql.Select(taskColumns...).From("tasks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get task query: %w", err)
	}
	t, err := scanTask(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("error getting task: %w", err)
	}
	return t, nil
}

// Update saves the editable task fields
func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	sql, args, err := psql.Update("tasks").
		Set("title", t.Title).
		Set("info", t.Info).
		Set("due_date", t.DueDate).
		Set("done", t.Done).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrTaskNotFound
		}
		return fmt.Errorf("error updating task: %w", err)
	}
	return nil
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// ListVisible lists the tasks userID owns or created
func (r *TaskRepository) ListVisible(ctx context.Context, userID int64, pendingOnly bool) ([]*models.Task, error) {
	sql, args, err := visibleTasksQuery(userID, pendingOnly).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build visible tasks query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning task row")
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
