package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmstead/farmstead-backend/pkg/database"
	"github.com/farmstead/farmstead-backend/pkg/errors"
)

// Task priorities
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// FarmTask represents a farm work item
type FarmTask struct {
	ID          string     `db:"id" json:"id"`
	FarmID      string     `db:"farm_id" json:"farm_id"`
	CropID      *string    `db:"crop_id" json:"crop_id,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	TaskType    string     `db:"task_type" json:"task_type"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Priority    string     `db:"priority" json:"priority"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskRepository handles farm task persistence
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *FarmTask) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Priority == "" {
		task.Priority = TaskPriorityMedium
	}

	query := `
		INSERT INTO farm_tasks (
			id, farm_id, crop_id, title, description, task_type, due_date, priority, completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		task.ID, task.FarmID, task.CropID, task.Title, task.Description,
		task.TaskType, task.DueDate, task.Priority, task.Completed,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*FarmTask, error) {
	var task FarmTask
	query := `SELECT * FROM farm_tasks WHERE id = $1`
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("task")
		}
		return nil, err
	}
	return &task, nil
}

// List lists tasks, optionally filtered by farm and completion
func (r *TaskRepository) List(ctx context.Context, farmID string, completed *bool) ([]*FarmTask, error) {
	query := `SELECT * FROM farm_tasks WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if farmID != "" {
		query += fmt.Sprintf(" AND farm_id = $%d", argIndex)
		args = append(args, farmID)
		argIndex++
	}
	if completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", argIndex)
		args = append(args, *completed)
		argIndex++
	}

	query += ` ORDER BY due_date NULLS LAST, created_at DESC`

	var tasks []*FarmTask
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *TaskRepository) Update(ctx context.Context, task *FarmTask) error {
	query := `
		UPDATE farm_tasks SET
			crop_id = $2, title = $3, description = $4, task_type = $5,
			due_date = $6, priority = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		task.ID, task.CropID, task.Title, task.Description, task.TaskType,
		task.DueDate, task.Priority,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("task")
	}

	return nil
}

// SetCompleted flips a task's completion state
func (r *TaskRepository) SetCompleted(ctx context.Context, id string, completed bool) (*FarmTask, error) {
	var task FarmTask
	query := `
		UPDATE farm_tasks SET
			completed = $2,
			completed_at = CASE WHEN $2 THEN NOW() ELSE NULL END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &task, query, id, completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("task")
		}
		return nil, err
	}
	return &task, nil
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM farm_tasks WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("task")
	}

	return nil
}

// ListOpen lists all open tasks, soonest due first
func (r *TaskRepository) ListOpen(ctx context.Context) ([]*FarmTask, error) {
	var tasks []*FarmTask
	query := `
		SELECT * FROM farm_tasks
		WHERE completed = false
		ORDER BY due_date NULLS LAST, created_at
	`
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, err
	}
	return tasks, nil
}
