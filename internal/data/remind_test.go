package data

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "remind.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func storedTask(t *testing.T) *domain.RemindTask {
	t.Helper()
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, domain.JST)
	task, err := domain.NewRemindTask(domain.RemindTaskInput{
		Title:               "掃除",
		Description:         "部屋の掃除",
		IntervalDays:        7,
		TimeOfDay:           "09:00",
		RemindBeforeMinutes: 1440,
		InventoryItems: []domain.InventoryItem{
			{Name: "洗剤", Stock: 2, Consume: 1},
		},
	}, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	task.MessageID = "msg-1"
	return task
}

func TestRemindTaskRepo_CreateAndFetch(t *testing.T) {
	repo := NewRemindTaskRepo(openTestDB(t))
	ctx := context.Background()
	task := storedTask(t)

	if err := repo.CreateTask(ctx, "ch-1", task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	tasks, err := repo.FetchTasks(ctx, "ch-1")
	if err != nil {
		t.Fatalf("Failed to fetch tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}

	got := tasks[0]
	if got.ID != task.ID || got.Title != "掃除" || got.Description != "部屋の掃除" {
		t.Errorf("Unexpected task %+v", got)
	}
	if got.NextDueAt.Unix() != task.NextDueAt.Unix() {
		t.Errorf("Expected NextDueAt %v, got %v", task.NextDueAt, got.NextDueAt)
	}
	if !got.LastDoneAt.IsZero() {
		t.Errorf("Expected zero LastDoneAt, got %v", got.LastDoneAt)
	}
	if len(got.InventoryItems) != 1 || got.InventoryItems[0].Name != "洗剤" {
		t.Errorf("Unexpected inventory %+v", got.InventoryItems)
	}
}

func TestRemindTaskRepo_FindByMessageID(t *testing.T) {
	repo := NewRemindTaskRepo(openTestDB(t))
	ctx := context.Background()
	task := storedTask(t)

	if err := repo.CreateTask(ctx, "ch-1", task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	got, err := repo.FindTaskByMessageID(ctx, "ch-1", "msg-1")
	if err != nil {
		t.Fatalf("Failed to find task: %v", err)
	}
	if got.ID != task.ID {
		t.Errorf("Expected id %s, got %s", task.ID, got.ID)
	}

	_, err = repo.FindTaskByMessageID(ctx, "ch-1", "missing")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
	_, err = repo.FindTaskByMessageID(ctx, "other-channel", "msg-1")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Expected channel scoping, got %v", err)
	}
}

func TestRemindTaskRepo_UpdateRoundTrip(t *testing.T) {
	repo := NewRemindTaskRepo(openTestDB(t))
	ctx := context.Background()
	task := storedTask(t)

	if err := repo.CreateTask(ctx, "ch-1", task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	doneAt := time.Date(2025, 12, 29, 10, 0, 0, 0, domain.JST)
	task.Complete(doneAt)
	task.MarkPreReminded(doneAt)
	if err := repo.UpdateTask(ctx, "ch-1", task); err != nil {
		t.Fatalf("Failed to update task: %v", err)
	}
	// Idempotent: same state twice.
	if err := repo.UpdateTask(ctx, "ch-1", task); err != nil {
		t.Fatalf("Repeated update failed: %v", err)
	}

	got, err := repo.FindTaskByMessageID(ctx, "ch-1", "msg-1")
	if err != nil {
		t.Fatalf("Failed to find task: %v", err)
	}
	if got.LastDoneAt.Unix() != doneAt.Unix() {
		t.Errorf("Expected LastDoneAt %v, got %v", doneAt, got.LastDoneAt)
	}
	if got.LastPreRemindedAt.Unix() != doneAt.Unix() {
		t.Errorf("Expected LastPreRemindedAt %v, got %v", doneAt, got.LastPreRemindedAt)
	}
	if got.InventoryItems[0].Stock != 1 {
		t.Errorf("Expected consumed stock 1, got %d", got.InventoryItems[0].Stock)
	}
}

func TestRemindTaskRepo_UpdateMessageID(t *testing.T) {
	repo := NewRemindTaskRepo(openTestDB(t))
	ctx := context.Background()
	task := storedTask(t)

	if err := repo.CreateTask(ctx, "ch-1", task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	if err := repo.UpdateTaskMessageID(ctx, "ch-1", task.ID, "msg-2"); err != nil {
		t.Fatalf("Failed to update message id: %v", err)
	}
	if _, err := repo.FindTaskByMessageID(ctx, "ch-1", "msg-2"); err != nil {
		t.Errorf("Expected task under new message id, got %v", err)
	}

	err := repo.UpdateTaskMessageID(ctx, "ch-1", "unknown-task", "msg-3")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestRemindTaskRepo_Delete(t *testing.T) {
	repo := NewRemindTaskRepo(openTestDB(t))
	ctx := context.Background()
	task := storedTask(t)

	if err := repo.CreateTask(ctx, "ch-1", task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	if err := repo.DeleteTask(ctx, "ch-1", task.ID); err != nil {
		t.Fatalf("Failed to delete task: %v", err)
	}

	tasks, err := repo.FetchTasks(ctx, "ch-1")
	if err != nil {
		t.Fatalf("Failed to fetch tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(tasks))
	}
}
