package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/frocha/mesada/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var isDiscount, isBonus, enable int

	err := scanner.Scan(
		&t.ID, &t.Title, &t.Description, &t.Value,
		&isDiscount, &isBonus, &t.SortOrder, &enable,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.IsDiscount = isDiscount != 0
	t.IsBonus = isBonus != 0
	t.Enable = enable != 0
	return &t, nil
}

const taskCols = `id, title, description, value, is_discount, is_bonus, sort_order, enable, created_at, updated_at`

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *TaskStore) Create(title, description string, value float64, isDiscount, isBonus bool, sortOrder int) (*model.Task, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, description, value, is_discount, is_bonus, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, title, description, value, b2i(isDiscount), b2i(isBonus), sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListEnabled returns enabled tasks in display order. Disabled (soft-deleted)
// tasks are excluded but remain joinable from historical completions.
func (s *TaskStore) ListEnabled() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskCols + ` FROM tasks WHERE enable = 1 ORDER BY sort_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// CountEnabledPaid counts enabled tasks that are neither discount nor bonus,
// i.e. the denominator of the daily completion ratio.
func (s *TaskStore) CountEnabledPaid() (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks WHERE enable = 1 AND is_discount = 0 AND is_bonus = 0`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count paid tasks: %w", err)
	}
	return n, nil
}

func (s *TaskStore) Update(id, title, description string, value float64, isDiscount, isBonus bool, sortOrder int, enable bool) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, value = ?, is_discount = ?, is_bonus = ?, sort_order = ?, enable = ?, updated_at = datetime('now') WHERE id = ?`,
		title, description, value, b2i(isDiscount), b2i(isBonus), sortOrder, b2i(enable), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

// SoftDelete marks a task disabled. Historical completions keep referencing it.
func (s *TaskStore) SoftDelete(id string) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET enable = 0, updated_at = datetime('now') WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete task: %w", err)
	}
	return nil
}

// UpdateSortOrder assigns sort_order = index for each id, in one transaction
// so a partial failure cannot leave a mixed ordering.
func (s *TaskStore) UpdateSortOrder(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE tasks SET sort_order = ?, updated_at = datetime('now') WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("update sort order: %w", err)
		}
	}
	return tx.Commit()
}
