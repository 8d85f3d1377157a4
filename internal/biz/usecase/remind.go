package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/repo"
)

// RemindUsecase implements the user-triggered task operations. Interaction
// handlers call these directly; the scheduler owns only the autonomous
// pre-reminder/overdue/refresh decisions.
type RemindUsecase struct {
	taskRepo repo.RemindTaskRepo
	metaRepo repo.MetadataRepo
	manager  repo.MessageManager
	logger   *zap.Logger
}

// NewRemindUsecase creates a new remind usecase
func NewRemindUsecase(
	taskRepo repo.RemindTaskRepo,
	metaRepo repo.MetadataRepo,
	manager repo.MessageManager,
	logger *zap.Logger,
) *RemindUsecase {
	return &RemindUsecase{
		taskRepo: taskRepo,
		metaRepo: metaRepo,
		manager:  manager,
		logger:   logger.Named("remind"),
	}
}

// CreateTask builds a task from the add-modal input, posts its status
// message and persists the record.
func (uc *RemindUsecase) CreateTask(ctx context.Context, channelID string, input domain.RemindTaskInput, now time.Time) (*domain.RemindTask, error) {
	task, err := domain.NewRemindTask(input, now)
	if err != nil {
		return nil, err
	}

	messageID, err := uc.manager.PostTaskMessage(ctx, channelID, task, now)
	if err != nil {
		return nil, err
	}
	task.MessageID = messageID

	if err := uc.taskRepo.CreateTask(ctx, channelID, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask records a manual completion on the task represented by
// messageID. The status message re-render is best effort: persisted state is
// never rolled back on a transport failure.
func (uc *RemindUsecase) CompleteTask(ctx context.Context, channelID, messageID string, now time.Time) (*domain.RemindTask, error) {
	task, err := uc.taskRepo.FindTaskByMessageID(ctx, channelID, messageID)
	if err != nil {
		return nil, err
	}

	task.Complete(now)
	if err := uc.taskRepo.UpdateTask(ctx, channelID, task); err != nil {
		return nil, err
	}

	if err := uc.manager.UpdateTaskMessage(ctx, channelID, task.MessageID, task, now); err != nil {
		uc.logger.Warn("task message refresh failed after completion",
			zap.String("channel_id", channelID),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
	return task, nil
}

// OverrideTask applies a direct date/limit override. Blank form fields
// arrive as nil and leave existing values and notify counters untouched.
func (uc *RemindUsecase) OverrideTask(ctx context.Context, channelID, messageID string, o domain.RemindTaskOverride, now time.Time) (*domain.RemindTask, error) {
	task, err := uc.taskRepo.FindTaskByMessageID(ctx, channelID, messageID)
	if err != nil {
		return nil, err
	}

	if err := task.Override(o, now); err != nil {
		return nil, err
	}
	if err := uc.taskRepo.UpdateTask(ctx, channelID, task); err != nil {
		return nil, err
	}

	if err := uc.manager.UpdateTaskMessage(ctx, channelID, task.MessageID, task, now); err != nil {
		uc.logger.Warn("task message refresh failed after override",
			zap.String("channel_id", channelID),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
	return task, nil
}

// TaskFieldUpdate carries the editable fields of the edit modal. Nil fields
// are preserved unchanged.
type TaskFieldUpdate struct {
	Title        *string
	Description  *string
	IntervalDays *int
	TimeOfDay    *string
	RemindBefore *string // duration string, e.g. "1:00:00" or "00:30"
}

// UpdateTaskFields edits a task's schedule fields, then recreates its status
// message: the old message is deleted and a fresh one posted, reassigning
// the task's message id.
func (uc *RemindUsecase) UpdateTaskFields(ctx context.Context, channelID, messageID string, update TaskFieldUpdate, now time.Time) (*domain.RemindTask, error) {
	task, err := uc.taskRepo.FindTaskByMessageID(ctx, channelID, messageID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, &domain.ValidationError{Field: "title", Message: "must not be empty"}
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.IntervalDays != nil {
		if *update.IntervalDays < 1 {
			return nil, &domain.ValidationError{Field: "intervalDays", Message: "must be at least 1"}
		}
		task.IntervalDays = *update.IntervalDays
	}
	if update.TimeOfDay != nil {
		if _, _, err := domain.ParseTimeOfDay(*update.TimeOfDay); err != nil {
			return nil, err
		}
		task.TimeOfDay = *update.TimeOfDay
	}
	if update.RemindBefore != nil {
		minutes, err := domain.ParseRemindBefore(*update.RemindBefore)
		if err != nil {
			return nil, err
		}
		task.RemindBeforeMinutes = minutes
	}
	task.UpdatedAt = now

	if err := uc.manager.DeleteTaskMessage(ctx, channelID, task.MessageID); err != nil {
		uc.logger.Warn("old task message delete failed",
			zap.String("channel_id", channelID),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
	newMessageID, err := uc.manager.PostTaskMessage(ctx, channelID, task, now)
	if err != nil {
		return nil, err
	}
	task.MessageID = newMessageID

	if err := uc.taskRepo.UpdateTask(ctx, channelID, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes both the task record and its rendered message.
func (uc *RemindUsecase) DeleteTask(ctx context.Context, channelID, messageID string) error {
	task, err := uc.taskRepo.FindTaskByMessageID(ctx, channelID, messageID)
	if err != nil {
		return err
	}

	if err := uc.manager.DeleteTaskMessage(ctx, channelID, task.MessageID); err != nil {
		uc.logger.Warn("task message delete failed",
			zap.String("channel_id", channelID),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
	return uc.taskRepo.DeleteTask(ctx, channelID, task.ID)
}

// TaskDetail renders the detail block for the task behind messageID.
func (uc *RemindUsecase) TaskDetail(ctx context.Context, channelID, messageID string) (string, error) {
	task, err := uc.taskRepo.FindTaskByMessageID(ctx, channelID, messageID)
	if err != nil {
		return "", err
	}
	return domain.FormatDetailText(task), nil
}
