package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultOverdueNotifyLimit bounds overdue notices per due cycle unless the
// user overrides it.
const DefaultOverdueNotifyLimit = 1

// InventoryItem is a stocked consumable attached to a task, checked for
// shortage when a pre-reminder fires.
type InventoryItem struct {
	Name    string `json:"name"`
	Stock   int    `json:"stock"`   // units on hand
	Consume int    `json:"consume"` // units consumed per completion
}

// Shortage returns how many units are missing for one completion.
func (i InventoryItem) Shortage() int {
	if i.Stock >= i.Consume {
		return 0
	}
	return i.Consume - i.Stock
}

// RemindTask represents one recurring obligation tracked in a channel,
// rendered as one Discord message.
type RemindTask struct {
	ID                    string          `json:"id"`
	MessageID             string          `json:"message_id"` // reassigned when the message is recreated
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	IntervalDays          int             `json:"interval_days"`
	TimeOfDay             string          `json:"time_of_day"` // "HH:MM" in JST
	RemindBeforeMinutes   int             `json:"remind_before_minutes"`
	InventoryItems        []InventoryItem `json:"inventory_items"`
	StartAt               time.Time       `json:"start_at"`
	LastDoneAt            time.Time       `json:"last_done_at"` // zero when never completed
	NextDueAt             time.Time       `json:"next_due_at"`
	OverdueNotifyCount    int             `json:"overdue_notify_count"`
	OverdueNotifyLimit    int             `json:"overdue_notify_limit"`
	LastOverdueNotifiedAt time.Time       `json:"last_overdue_notified_at"`
	LastPreRemindedAt     time.Time       `json:"last_pre_reminded_at"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// RemindTaskInput contains the creation fields for a new task
type RemindTaskInput struct {
	Title               string
	Description         string
	IntervalDays        int
	TimeOfDay           string
	RemindBeforeMinutes int
	InventoryItems      []InventoryItem
	OverdueNotifyLimit  int // 0 means DefaultOverdueNotifyLimit
}

// NewRemindTask constructs a valid RemindTask from raw input. StartAt is the
// next occurrence of TimeOfDay at or after now, and NextDueAt starts equal
// to it. No side effects.
func NewRemindTask(input RemindTaskInput, now time.Time) (*RemindTask, error) {
	if input.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if input.IntervalDays < 1 {
		return nil, &ValidationError{Field: "intervalDays", Message: "must be at least 1"}
	}
	if input.RemindBeforeMinutes < 0 {
		return nil, &ValidationError{Field: "remindBeforeMinutes", Message: "must not be negative"}
	}

	startAt, err := NextTimeOfDay(now, input.TimeOfDay)
	if err != nil {
		return nil, err
	}

	limit := input.OverdueNotifyLimit
	if limit <= 0 {
		limit = DefaultOverdueNotifyLimit
	}

	return &RemindTask{
		ID:                  uuid.NewString(),
		Title:               input.Title,
		Description:         input.Description,
		IntervalDays:        input.IntervalDays,
		TimeOfDay:           input.TimeOfDay,
		RemindBeforeMinutes: input.RemindBeforeMinutes,
		InventoryItems:      input.InventoryItems,
		StartAt:             startAt,
		NextDueAt:           startAt,
		OverdueNotifyLimit:  limit,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// Interval returns the recurrence period as a duration.
func (t *RemindTask) Interval() time.Duration {
	return time.Duration(t.IntervalDays) * 24 * time.Hour
}

// PreviousDueAt returns the start of the current due cycle.
func (t *RemindTask) PreviousDueAt() time.Time {
	return t.NextDueAt.AddDate(0, 0, -t.IntervalDays)
}

// PreRemindWindowStart returns the moment the pre-reminder window opens.
func (t *RemindTask) PreRemindWindowStart() time.Time {
	return t.NextDueAt.Add(-time.Duration(t.RemindBeforeMinutes) * time.Minute)
}

// PreRemindDue reports whether a pre-reminder should fire at now: the task
// has a pre-reminder offset, now falls within [NextDueAt-offset, NextDueAt),
// and none has fired yet in this window.
func (t *RemindTask) PreRemindDue(now time.Time) bool {
	if t.RemindBeforeMinutes <= 0 {
		return false
	}
	windowStart := t.PreRemindWindowStart()
	if now.Before(windowStart) || !now.Before(t.NextDueAt) {
		return false
	}
	return t.LastPreRemindedAt.Before(windowStart)
}

// MarkPreReminded records that the pre-reminder fired for this cycle.
func (t *RemindTask) MarkPreReminded(now time.Time) {
	t.LastPreRemindedAt = now
	t.UpdatedAt = now
}

// OverdueNoticeDue reports whether an overdue notice should fire at now:
// the due moment has passed, the notify limit is not exhausted, and no
// notice has been sent since the current NextDueAt.
func (t *RemindTask) OverdueNoticeDue(now time.Time) bool {
	if now.Before(t.NextDueAt) {
		return false
	}
	if t.OverdueNotifyCount >= t.OverdueNotifyLimit {
		return false
	}
	return t.LastOverdueNotifiedAt.Before(t.NextDueAt)
}

// MarkOverdueNotified records that an overdue notice was sent at now.
func (t *RemindTask) MarkOverdueNotified(now time.Time) {
	t.OverdueNotifyCount++
	t.LastOverdueNotifiedAt = now
	t.UpdatedAt = now
}

// Complete records a manual completion at now. NextDueAt advances along the
// interval grid anchored at StartAt to the smallest value greater than now,
// notify counters reset, and inventory stock is consumed.
func (t *RemindTask) Complete(now time.Time) {
	t.LastDoneAt = now

	next := t.NextDueAt.AddDate(0, 0, t.IntervalDays)
	for !next.After(now) {
		next = next.AddDate(0, 0, t.IntervalDays)
	}
	t.NextDueAt = next

	t.OverdueNotifyCount = 0
	t.LastOverdueNotifiedAt = time.Time{}
	t.LastPreRemindedAt = time.Time{}

	for i := range t.InventoryItems {
		item := &t.InventoryItems[i]
		item.Stock -= item.Consume
		if item.Stock < 0 {
			item.Stock = 0
		}
	}

	t.UpdatedAt = now
}

// RemindTaskOverride carries the fields a user may overwrite directly via
// the date/limit edit form. Nil fields leave existing values untouched.
type RemindTaskOverride struct {
	LastDoneAt         *time.Time
	NextDueAt          *time.Time
	OverdueNotifyLimit *int
}

// Override applies the supplied fields only. Setting NextDueAt starts a new
// due cycle, so the overdue counters reset with it.
func (t *RemindTask) Override(o RemindTaskOverride, now time.Time) error {
	if o.OverdueNotifyLimit != nil && *o.OverdueNotifyLimit < 1 {
		return &ValidationError{Field: "overdueNotifyLimit", Message: "must be at least 1"}
	}

	if o.LastDoneAt != nil {
		t.LastDoneAt = *o.LastDoneAt
	}
	if o.NextDueAt != nil {
		t.NextDueAt = *o.NextDueAt
		t.OverdueNotifyCount = 0
		t.LastOverdueNotifiedAt = time.Time{}
		t.LastPreRemindedAt = time.Time{}
	}
	if o.OverdueNotifyLimit != nil {
		t.OverdueNotifyLimit = *o.OverdueNotifyLimit
	}
	t.UpdatedAt = now
	return nil
}

// ShortageItems returns the inventory items that cannot cover one more
// completion.
func (t *RemindTask) ShortageItems() []InventoryItem {
	var short []InventoryItem
	for _, item := range t.InventoryItems {
		if item.Shortage() > 0 {
			short = append(short, item)
		}
	}
	return short
}
