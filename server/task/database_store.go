// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver used by goose
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/go-a2a/a2a-session"
)

//go:embed migrations/*.sql
var migrations embed.FS

// taskRecord is the row layout of the a2a_tasks table.
type taskRecord struct {
	ID        string `gorm:"primaryKey"`
	ContextID string `gorm:"index"`
	State     string
	Payload   string `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements [gorm.io/gorm/schema.Tabler].
func (taskRecord) TableName() string { return "a2a_tasks" }

func newTaskRecord(task *a2a.Task) (*taskRecord, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}
	return &taskRecord{
		ID:        task.ID,
		ContextID: task.ContextID,
		State:     string(task.Status.State),
		Payload:   string(payload),
	}, nil
}

func (r *taskRecord) toTask() (*a2a.Task, error) {
	var task a2a.Task
	if err := json.Unmarshal([]byte(r.Payload), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

// DatabaseStore is a PostgreSQL implementation of [Store] using GORM.
// The table is created by [Migrate].
type DatabaseStore struct {
	db *gorm.DB
}

var _ Store = (*DatabaseStore)(nil)

// NewDatabaseStore creates a DatabaseStore on top of db.
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &DatabaseStore{db: db}, nil
}

// OpenDatabaseStore connects to the PostgreSQL database at dsn.
func OpenDatabaseStore(dsn string) (*DatabaseStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return NewDatabaseStore(db)
}

// Get retrieves the snapshot of taskID.
func (s *DatabaseStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	var rec taskRecord
	if err := s.db.WithContext(ctx).Where("id = ?", taskID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, a2a.TaskNotFoundError{TaskID: taskID}
		}
		return nil, NewTaskStoreError("get", taskID, err)
	}

	task, err := rec.toTask()
	if err != nil {
		return nil, NewTaskStoreError("get", taskID, err)
	}
	return task, nil
}

// Update applies event to the stored snapshot of its task inside a
// transaction that holds a row lock on the snapshot.
func (s *DatabaseStore) Update(ctx context.Context, event a2a.TaskEvent) error {
	if event == nil {
		return fmt.Errorf("task event cannot be nil")
	}
	taskID := event.GetTaskID()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var snapshot *a2a.Task
		var rec taskRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", taskID).First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			if snapshot, err = rec.toTask(); err != nil {
				return err
			}
		}

		next, err := Apply(ctx, snapshot, event)
		if err != nil {
			return err
		}
		row, err := newTaskRecord(next)
		if err != nil {
			return err
		}
		if snapshot != nil {
			row.CreatedAt = rec.CreatedAt
		}
		return tx.Save(row).Error
	})
	if err != nil {
		return NewTaskStoreError("update", taskID, err)
	}
	return nil
}

// Delete removes the snapshot of taskID.
func (s *DatabaseStore) Delete(ctx context.Context, taskID string) error {
	result := s.db.WithContext(ctx).Where("id = ?", taskID).Delete(&taskRecord{})
	if result.Error != nil {
		return NewTaskStoreError("delete", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return a2a.TaskNotFoundError{TaskID: taskID}
	}
	return nil
}

// ListByContext returns the snapshots of every task in contextID.
func (s *DatabaseStore) ListByContext(ctx context.Context, contextID string) ([]*a2a.Task, error) {
	var recs []taskRecord
	if err := s.db.WithContext(ctx).Where("context_id = ?", contextID).Order("created_at").Find(&recs).Error; err != nil {
		return nil, NewTaskStoreError("list", "", err)
	}

	tasks := make([]*a2a.Task, len(recs))
	for i := range recs {
		task, err := recs[i].toTask()
		if err != nil {
			return nil, NewTaskStoreError("list", recs[i].ID, err)
		}
		tasks[i] = task
	}
	return tasks, nil
}

// Close closes the underlying connection pool.
func (s *DatabaseStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate applies all pending migrations of the task table to the
// PostgreSQL database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	goose.SetBaseFS(migrations)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
