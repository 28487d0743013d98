package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/frocha/mesada/internal/dates"
	"github.com/frocha/mesada/internal/model"
)

type CompletedTaskStore struct {
	db *sql.DB
}

func NewCompletedTaskStore(db *sql.DB) *CompletedTaskStore {
	return &CompletedTaskStore{db: db}
}

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.CompletedTask, error) {
	var c model.CompletedTask
	err := scanner.Scan(&c.ID, &c.TaskID, &c.ChildID, &c.Date, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const completionCols = `id, task_id, child_id, date, created_at`

func (s *CompletedTaskStore) GetByID(id string) (*model.CompletedTask, error) {
	row := s.db.QueryRow(`SELECT `+completionCols+` FROM completed_tasks WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

// ListByChildAndRange returns a child's completions within [start, end]
// (inclusive on both ends), each joined with its task's value and category
// flags. The join deliberately includes disabled tasks so history keeps its
// value after a soft delete.
func (s *CompletedTaskStore) ListByChildAndRange(childID string, start, end time.Time) ([]model.CompletedTaskWithTask, error) {
	rows, err := s.db.Query(
		`SELECT ct.id, ct.task_id, ct.child_id, ct.date, ct.created_at,
		        t.value, t.is_discount, t.is_bonus
		 FROM completed_tasks ct
		 JOIN tasks t ON t.id = ct.task_id
		 WHERE ct.child_id = ? AND ct.date >= ? AND ct.date <= ?
		 ORDER BY ct.date ASC`,
		childID, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list completions by range: %w", err)
	}
	defer rows.Close()

	var completions []model.CompletedTaskWithTask
	for rows.Next() {
		var c model.CompletedTaskWithTask
		var isDiscount, isBonus int
		err := rows.Scan(
			&c.ID, &c.TaskID, &c.ChildID, &c.Date, &c.CreatedAt,
			&c.Task.Value, &isDiscount, &isBonus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		c.Task.IsDiscount = isDiscount != 0
		c.Task.IsBonus = isBonus != 0
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// Toggle flips the completion state of (taskID, childID, the calendar day
// containing date). If a record exists in that day it is deleted and Toggle
// reports uncompleted; otherwise a record is inserted and returned. The whole
// read-then-write runs in one transaction so concurrent toggles for the same
// key cannot double-insert.
func (s *CompletedTaskStore) Toggle(taskID, childID string, date time.Time) (*model.CompletedTask, bool, error) {
	dayStart := dates.StartOfDay(date)
	dayEnd := dates.EndOfDay(date)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+completionCols+` FROM completed_tasks
		 WHERE task_id = ? AND child_id = ? AND date >= ? AND date <= ?`,
		taskID, childID, dayStart.UTC(), dayEnd.UTC(),
	)
	existing, err := scanCompletion(row)
	if err != nil && err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("find completion: %w", err)
	}

	if existing != nil {
		if _, err := tx.Exec(`DELETE FROM completed_tasks WHERE id = ?`, existing.ID); err != nil {
			return nil, false, fmt.Errorf("delete completion: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit toggle: %w", err)
		}
		return nil, true, nil
	}

	id := uuid.New().String()
	if _, err := tx.Exec(
		`INSERT INTO completed_tasks (id, task_id, child_id, date) VALUES (?, ?, ?, ?)`,
		id, taskID, childID, date.UTC(),
	); err != nil {
		return nil, false, fmt.Errorf("insert completion: %w", err)
	}

	row = tx.QueryRow(`SELECT `+completionCols+` FROM completed_tasks WHERE id = ?`, id)
	created, err := scanCompletion(row)
	if err != nil {
		return nil, false, fmt.Errorf("read completion: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit toggle: %w", err)
	}
	return created, false, nil
}

func (s *CompletedTaskStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM completed_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}
