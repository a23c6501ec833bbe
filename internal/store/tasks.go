package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const taskColumns = `id, date, time, title, description, completed, is_urgent, reminder_minutes, created_at, updated_at`

// PutTask inserts or fully overwrites the task with the same id.
func (s *Store) PutTask(t Task) error {
	if err := s.ready(); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	created := now
	if !t.CreatedAt.IsZero() {
		created = t.CreatedAt.UTC().Format(time.RFC3339)
	}

	var reminder sql.NullInt64
	if t.ReminderMinutes != nil {
		reminder = sql.NullInt64{Int64: int64(*t.ReminderMinutes), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, date, time, title, description, completed, is_urgent, reminder_minutes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			time = excluded.time,
			title = excluded.title,
			description = excluded.description,
			completed = excluded.completed,
			is_urgent = excluded.is_urgent,
			reminder_minutes = excluded.reminder_minutes,
			updated_at = excluded.updated_at`,
		t.ID, t.Date, t.Time, t.Title, t.Description,
		boolToInt(t.Completed), boolToInt(t.IsUrgent), reminder, created, now,
	)
	if err != nil {
		return fmt.Errorf("put task %s: %w", t.ID, err)
	}
	return nil
}

// GetTask returns the task with the given id, or nil if it does not exist.
func (s *Store) GetTask(id string) (*Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// GetAllTasks returns every persisted task, in no guaranteed order.
func (s *Store) GetAllTasks() ([]Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task by id. Deleting an id that does not exist is
// not an error.
func (s *Store) DeleteTask(id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// ClearTasks irreversibly removes every task.
func (s *Store) ClearTasks() error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}

// CountTasks returns the number of persisted tasks.
func (s *Store) CountTasks() (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var completed, urgent int
	var reminder sql.NullInt64
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.Date, &t.Time, &t.Title, &t.Description,
		&completed, &urgent, &reminder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Completed = completed == 1
	t.IsUrgent = urgent == 1
	if reminder.Valid {
		m := int(reminder.Int64)
		t.ReminderMinutes = &m
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
