package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

const taskColumns = "id, owner, name, description, priority_level, status, created_at, updated_at"

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Owner == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid task payload")
	}
	if task.ID == "" {
		task.ID = primitive.NewObjectID().Hex()
	}

	const query = `
	INSERT INTO tasks (id, owner, name, description, priority_level, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Owner,
		task.Name,
		task.Description,
		task.PriorityLevel,
		task.Status,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, owner string) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND owner = $2`, taskColumns)
	return scanTask(r.pool.QueryRow(ctx, query, id, owner))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	// seq breaks created_at ties so the order is stable across calls.
	query := fmt.Sprintf(`
	SELECT %s FROM tasks
	WHERE owner = $1
	ORDER BY created_at DESC, seq DESC
	LIMIT $2 OFFSET $3
	`, taskColumns)

	rows, err := r.pool.Query(ctx, query, filter.Owner, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context, owner string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE owner = $1`, owner).Scan(&total)
	return total, err
}

// Update applies only the fields present in the patch inside a single
// statement, so the ownership check and the mutation cannot race.
func (r *taskRepository) Update(ctx context.Context, id, owner string, patch repository.TaskPatch) (*domain.Task, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{id, owner}

	appendField := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		appendField("name", *patch.Name)
	}
	if patch.Description != nil {
		appendField("description", *patch.Description)
	}
	if patch.PriorityLevel != nil {
		appendField("priority_level", *patch.PriorityLevel)
	}
	if patch.Status != nil {
		appendField("status", *patch.Status)
	}

	query := fmt.Sprintf(`
	UPDATE tasks SET %s
	WHERE id = $1 AND owner = $2
	RETURNING %s
	`, strings.Join(set, ", "), taskColumns)

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

func (r *taskRepository) Delete(ctx context.Context, id, owner string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Owner,
		&task.Name,
		&task.Description,
		&task.PriorityLevel,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
