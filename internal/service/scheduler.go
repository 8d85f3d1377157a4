package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/repo"
)

// DefaultSchedulerInterval is how often the scheduler scans all channels.
const DefaultSchedulerInterval = 60 * time.Second

// RemindScheduler is the periodic batch engine. Each run evaluates every
// tracked channel's tasks against "now" and applies at most one action per
// task: a pre-reminder, an overdue notice, or a routine message refresh.
// Failures are isolated per channel and per task; a failed action is simply
// reattempted on a later run because the persisted state still marks it due.
type RemindScheduler struct {
	taskRepo repo.RemindTaskRepo
	metaRepo repo.MetadataRepo
	manager  repo.MessageManager
	logger   *zap.Logger

	interval   time.Duration
	inProgress atomic.Bool
	running    bool
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewRemindScheduler creates a scheduler. An interval of 0 falls back to
// DefaultSchedulerInterval.
func NewRemindScheduler(
	taskRepo repo.RemindTaskRepo,
	metaRepo repo.MetadataRepo,
	manager repo.MessageManager,
	interval time.Duration,
	logger *zap.Logger,
) *RemindScheduler {
	if interval <= 0 {
		interval = DefaultSchedulerInterval
	}
	return &RemindScheduler{
		taskRepo: taskRepo,
		metaRepo: metaRepo,
		manager:  manager,
		logger:   logger.Named("scheduler"),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic loop.
func (s *RemindScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	go s.loop()
	s.logger.Info("started", zap.Duration("interval", s.interval))
}

// Stop stops the periodic loop and waits for an in-flight run to finish.
func (s *RemindScheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("stopped")
}

func (s *RemindScheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

// tick runs one scheduler pass unless the previous pass is still executing,
// in which case the tick is skipped entirely.
func (s *RemindScheduler) tick() {
	if !s.inProgress.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still in progress, skipping tick")
		return
	}
	defer s.inProgress.Store(false)

	s.RunOnce(context.Background(), time.Now().In(domain.JST))
}

// RunOnce evaluates all tracked channels at now. A failure in one channel
// never aborts processing of the others.
func (s *RemindScheduler) RunOnce(ctx context.Context, now time.Time) {
	channels, err := s.metaRepo.ListChannels(ctx)
	if err != nil {
		s.logger.Error("failed to list channels", zap.Error(err))
		return
	}

	for _, meta := range channels {
		if !meta.HasNoticeThread() {
			continue
		}
		if err := s.processChannel(ctx, meta, now); err != nil {
			s.logger.Warn("channel processing failed",
				zap.String("channel_id", meta.ChannelID), zap.Error(err))
		}
	}
}

func (s *RemindScheduler) processChannel(ctx context.Context, meta *domain.ChannelMetadata, now time.Time) error {
	tasks, err := s.taskRepo.FetchTasks(ctx, meta.ChannelID)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if err := s.processTask(ctx, meta, task, now); err != nil {
			s.logger.Warn("task processing failed",
				zap.String("channel_id", meta.ChannelID),
				zap.String("task_id", task.ID),
				zap.String("title", task.Title),
				zap.Error(err))
		}
	}
	return nil
}

// processTask applies at most one action to a task, in priority order:
// pre-reminder, overdue notice, routine refresh.
func (s *RemindScheduler) processTask(ctx context.Context, meta *domain.ChannelMetadata, task *domain.RemindTask, now time.Time) error {
	switch {
	case task.PreRemindDue(now):
		return s.sendPreReminder(ctx, meta, task, now)
	case task.OverdueNoticeDue(now):
		return s.sendOverdueNotice(ctx, meta, task, now)
	default:
		return s.refreshTaskMessage(ctx, meta, task, now)
	}
}

// sendPreReminder posts the pre-reminder plus one shortage notice per
// under-stocked inventory item, then records the send so it does not repeat
// within the same due cycle. When the send fails nothing is recorded, so a
// later run retries naturally.
func (s *RemindScheduler) sendPreReminder(ctx context.Context, meta *domain.ChannelMetadata, task *domain.RemindTask, now time.Time) error {
	text := domain.FormatPreRemindText(task, now)
	if err := s.manager.SendReminderToThread(ctx, meta.ChannelID, meta.RemindNoticeThreadID, meta.RemindNoticeMessageID, text); err != nil {
		return err
	}

	for _, item := range task.ShortageItems() {
		shortage := domain.FormatShortageText(item)
		if err := s.manager.SendReminderToThread(ctx, meta.ChannelID, meta.RemindNoticeThreadID, meta.RemindNoticeMessageID, shortage); err != nil {
			s.logger.Warn("shortage notice failed",
				zap.String("channel_id", meta.ChannelID),
				zap.String("task_id", task.ID),
				zap.String("item", item.Name),
				zap.Error(err))
		}
	}

	task.MarkPreReminded(now)
	return s.taskRepo.UpdateTask(ctx, meta.ChannelID, task)
}

func (s *RemindScheduler) sendOverdueNotice(ctx context.Context, meta *domain.ChannelMetadata, task *domain.RemindTask, now time.Time) error {
	text := domain.FormatOverdueText(task)
	if err := s.manager.SendReminderToThread(ctx, meta.ChannelID, meta.RemindNoticeThreadID, meta.RemindNoticeMessageID, text); err != nil {
		return err
	}

	task.MarkOverdueNotified(now)
	return s.taskRepo.UpdateTask(ctx, meta.ChannelID, task)
}

// refreshTaskMessage keeps the displayed countdown current without touching
// task state. Re-renders are throttled by the manager's refresh clock.
func (s *RemindScheduler) refreshTaskMessage(ctx context.Context, meta *domain.ChannelMetadata, task *domain.RemindTask, now time.Time) error {
	if task.MessageID == "" {
		return nil
	}
	if !s.manager.NeedsRefresh(meta.ChannelID, task.MessageID, now) {
		return nil
	}
	return s.manager.UpdateTaskMessage(ctx, meta.ChannelID, task.MessageID, task, now)
}
