package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/domain"
	"github.com/yone-k/yone-discord-bot-sub003/internal/biz/usecase"
)

// Custom-id prefixes for the reminder interaction components.
const (
	CustomIDRemindAdd      = "remind-add"
	CustomIDRemindComplete = "remind-complete"
	CustomIDRemindDetail   = "remind-detail"
	CustomIDRemindEdit     = "remind-edit"
	CustomIDRemindOverride = "remind-override"
	CustomIDRemindDelete   = "remind-delete"
)

const overrideTimeLayout = "2006-01-02 15:04"

func matchesPrefix(customID, prefix string) bool {
	return customID == prefix || strings.HasPrefix(customID, prefix+":")
}

// targetMessageID returns the task message an interaction refers to: the
// custom-id suffix for modals, otherwise the message the component sits on.
func targetMessageID(ic *InteractionContext, prefix string) string {
	if suffix, ok := strings.CutPrefix(ic.CustomID, prefix+":"); ok && suffix != "" {
		return suffix
	}
	return ic.MessageID
}

// AddRemindHandler handles the add-task modal submission.
type AddRemindHandler struct {
	remindUC *usecase.RemindUsecase
}

func NewAddRemindHandler(remindUC *usecase.RemindUsecase) *AddRemindHandler {
	return &AddRemindHandler{remindUC: remindUC}
}

func (h *AddRemindHandler) ShouldHandle(ic *InteractionContext) bool {
	return ic.Kind == KindModalSubmit && matchesPrefix(ic.CustomID, CustomIDRemindAdd)
}

func (h *AddRemindHandler) Execute(ic *InteractionContext) error {
	intervalDays, err := strconv.Atoi(strings.TrimSpace(ic.Values["interval_days"]))
	if err != nil {
		return &domain.ValidationError{Field: "intervalDays", Message: "must be a number"}
	}

	remindBefore, err := domain.ParseRemindBefore(ic.Values["remind_before"])
	if err != nil {
		return err
	}

	inventory, err := parseInventoryItems(ic.Values["inventory"])
	if err != nil {
		return err
	}

	limit := 0
	if raw := strings.TrimSpace(ic.Values["overdue_notify_limit"]); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return &domain.ValidationError{Field: "overdueNotifyLimit", Message: "must be a number"}
		}
	}

	input := domain.RemindTaskInput{
		Title:               strings.TrimSpace(ic.Values["title"]),
		Description:         strings.TrimSpace(ic.Values["description"]),
		IntervalDays:        intervalDays,
		TimeOfDay:           strings.TrimSpace(ic.Values["time_of_day"]),
		RemindBeforeMinutes: remindBefore,
		InventoryItems:      inventory,
		OverdueNotifyLimit:  limit,
	}

	task, err := h.remindUC.CreateTask(ic.Context, ic.ChannelID, input, ic.Now)
	if err != nil {
		return err
	}
	return ic.Responder.ReplyEphemeral(fmt.Sprintf("リマインド「%s」を登録しました。次回期限: %s",
		task.Title, task.NextDueAt.In(domain.JST).Format(overrideTimeLayout)))
}

// parseInventoryItems parses one "name,stock,consume" triple per line.
func parseInventoryItems(raw string) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, &domain.ValidationError{Field: "inventory", Message: "each line must be name,stock,consume"}
		}
		stock, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || stock < 0 {
			return nil, &domain.ValidationError{Field: "inventory", Message: "stock must be a non-negative number"}
		}
		consume, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || consume < 0 {
			return nil, &domain.ValidationError{Field: "inventory", Message: "consume must be a non-negative number"}
		}
		items = append(items, domain.InventoryItem{
			Name:    strings.TrimSpace(parts[0]),
			Stock:   stock,
			Consume: consume,
		})
	}
	return items, nil
}

// CompleteRemindHandler handles the completion button on a task message.
type CompleteRemindHandler struct {
	remindUC *usecase.RemindUsecase
}

func NewCompleteRemindHandler(remindUC *usecase.RemindUsecase) *CompleteRemindHandler {
	return &CompleteRemindHandler{remindUC: remindUC}
}

func (h *CompleteRemindHandler) ShouldHandle(ic *InteractionContext) bool {
	return ic.Kind == KindButton && matchesPrefix(ic.CustomID, CustomIDRemindComplete)
}

func (h *CompleteRemindHandler) Execute(ic *InteractionContext) error {
	task, err := h.remindUC.CompleteTask(ic.Context, ic.ChannelID, targetMessageID(ic, CustomIDRemindComplete), ic.Now)
	if err != nil {
		return err
	}
	return ic.Responder.ReplyEphemeral(fmt.Sprintf("「%s」の完了を記録しました。次回期限: %s",
		task.Title, task.NextDueAt.In(domain.JST).Format(overrideTimeLayout)))
}

// DetailRemindHandler handles the detail button on a task message.
type DetailRemindHandler struct {
	remindUC *usecase.RemindUsecase
}

func NewDetailRemindHandler(remindUC *usecase.RemindUsecase) *DetailRemindHandler {
	return &DetailRemindHandler{remindUC: remindUC}
}

func (h *DetailRemindHandler) ShouldHandle(ic *InteractionContext) bool {
	return ic.Kind == KindButton && matchesPrefix(ic.CustomID, CustomIDRemindDetail)
}

func (h *DetailRemindHandler) Execute(ic *InteractionContext) error {
	detail, err := h.remindUC.TaskDetail(ic.Context, ic.ChannelID, targetMessageID(ic, CustomIDRemindDetail))
	if err != nil {
		return err
	}
	return ic.Responder.ReplyEphemeral(detail)
}

// EditRemindHandler handles the field-edit modal submission. Blank fields
// leave existing values unchanged.
type EditRemindHandler struct {
	remindUC *usecase.RemindUsecase
}

func NewEditRemindHandler(remindUC *usecase.RemindUsecase) *EditRemindHandler {
	return &EditRemindHandler{remindUC: remindUC}
}

func (h *EditRemindHandler) ShouldHandle(ic *InteractionContext) bool {
	return ic.Kind == KindModalSubmit && matchesPrefix(ic.CustomID, CustomIDRemindEdit)
}

func (h *EditRemindHandler) Execute(ic *InteractionContext) error {
	var update usecase.TaskFieldUpdate

	if v := strings.TrimSpace(ic.Values["title"]); v != "" {
		update.Title = &v
	}
	if v := strings.TrimSpace(ic.Values["description"]); v != "" {
		update.Description = &v
	}
	if v := strings.TrimSpace(ic.Values["interval_days"]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &domain.ValidationError{Field: "intervalDays", Message: "must be a number"}
		}
		update.IntervalDays = &n
	}
	if v := strings.TrimSpace(ic.Values["time_of_day"]); v != "" {
		update.TimeOfDay = &v
	}
	if v, ok := ic.Values["remind_before"]; ok && strings.TrimSpace(v) != "" {
		trimmed := strings.TrimSpace(v)
		update.RemindBefore = &trimmed
	}

	task, err := h.remindUC.UpdateTaskFields(ic.Context, ic.ChannelID, targetMessageID(ic, CustomIDRemindEdit), update, ic.Now)
	if err != nil {
		return err
	}
	return ic.Responder.ReplyEphemeral(fmt.Sprintf("「%s」を更新しました。", task.Title))
}

// OverrideRemindHandler handles the date/limit override modal. Blank fields
// preserve existing values and notify counters.
type OverrideRemindHandler struct {
	remindUC *usecase.RemindUsecase
}

func NewOverrideRemindHandler(remindUC *usecase.RemindUsecase) *OverrideRemindHandler {
	return &OverrideRemindHandler{remindUC: remindUC}
}

func (h *OverrideRemindHandler) ShouldHandle(ic *InteractionContext) bool {
	return ic.Kind == KindModalSubmit && matchesPrefix(ic.CustomID, CustomIDRemindOverride)
}

func (h *OverrideRemindHandler) Execute(ic *InteractionContext) error {
	var override domain.RemindTaskOverride

	lastDoneAt, err := parseOverrideTime(ic.Values["last_done_at"], "lastDoneAt")
	if err != nil {
		return err
	}
	override.LastDoneAt = lastDoneAt

	nextDueAt, err := parseOverrideTime(ic.Values["next_due_at"], "nextDueAt")
	if err != nil {
		return err
	}
	override.NextDueAt = nextDueAt

	if v := strings.TrimSpace(ic.Values["overdue_notify_limit"]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &domain.ValidationError{Field: "overdueNotifyLimit", Message: "must be a number"}
		}
		override.OverdueNotifyLimit = &n
	}

	task, err := h.remindUC.OverrideTask(ic.Context, ic.ChannelID, targetMessageID(ic, CustomIDRemindOverride), override, ic.Now)
	if err != nil {
		return err
	}
	return ic.Responder.ReplyEphemeral(fmt.Sprintf("「%s」の期限を変更しました。次回期限: %s",
		task.Title, task.NextDueAt.In(domain.JST).Format(overrideTimeLayout)))
}

func parseOverrideTime(raw, field string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(overrideTimeLayout, trimmed, domain.JST)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Message: "must match YYYY-MM-DD HH:MM"}
	}
	return &t, nil
}

// DeleteRemindHandler handles the delete button on a task message.
type DeleteRemindHandler struct {
	remindUC *usecase.RemindUsecase
}

func NewDeleteRemindHandler(remindUC *usecase.RemindUsecase) *DeleteRemindHandler {
	return &DeleteRemindHandler{remindUC: remindUC}
}

func (h *DeleteRemindHandler) ShouldHandle(ic *InteractionContext) bool {
	return ic.Kind == KindButton && matchesPrefix(ic.CustomID, CustomIDRemindDelete)
}

func (h *DeleteRemindHandler) Execute(ic *InteractionContext) error {
	if err := h.remindUC.DeleteTask(ic.Context, ic.ChannelID, targetMessageID(ic, CustomIDRemindDelete)); err != nil {
		return err
	}
	return ic.Responder.ReplyEphemeral("リマインドを削除しました。")
}
