package domain

import (
	"errors"
	"testing"
	"time"
)

func validInput() RemindTaskInput {
	return RemindTaskInput{
		Title:               "掃除",
		IntervalDays:        7,
		TimeOfDay:           "09:00",
		RemindBeforeMinutes: 1440,
	}
}

func TestNewRemindTask_NextDueEqualsStart(t *testing.T) {
	now := time.Date(2025, 12, 29, 8, 30, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !task.NextDueAt.Equal(task.StartAt) {
		t.Errorf("Expected NextDueAt to equal StartAt, got %v and %v", task.NextDueAt, task.StartAt)
	}
	local := task.StartAt.In(JST)
	if local.Hour() != 9 || local.Minute() != 0 {
		t.Errorf("Expected StartAt local time-of-day 09:00, got %02d:%02d", local.Hour(), local.Minute())
	}
	if task.ID == "" {
		t.Error("Expected a generated id")
	}
	if task.OverdueNotifyLimit != DefaultOverdueNotifyLimit {
		t.Errorf("Expected default notify limit %d, got %d", DefaultOverdueNotifyLimit, task.OverdueNotifyLimit)
	}
}

func TestNewRemindTask_InvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RemindTaskInput)
	}{
		{"zero interval", func(in *RemindTaskInput) { in.IntervalDays = 0 }},
		{"negative interval", func(in *RemindTaskInput) { in.IntervalDays = -3 }},
		{"negative remind before", func(in *RemindTaskInput) { in.RemindBeforeMinutes = -1 }},
		{"bad time of day", func(in *RemindTaskInput) { in.TimeOfDay = "9時" }},
		{"empty title", func(in *RemindTaskInput) { in.Title = "" }},
	}

	now := time.Date(2025, 12, 29, 8, 30, 0, 0, JST)
	for _, tc := range cases {
		input := validInput()
		tc.mutate(&input)
		_, err := NewRemindTask(input, now)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestComplete_AdvancesAlongGrid(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	task.Complete(now)

	want := time.Date(2026, 1, 5, 9, 0, 0, 0, JST)
	if !task.NextDueAt.Equal(want) {
		t.Errorf("Expected NextDueAt %v, got %v", want, task.NextDueAt)
	}
	if !task.LastDoneAt.Equal(now) {
		t.Errorf("Expected LastDoneAt %v, got %v", now, task.LastDoneAt)
	}
}

func TestComplete_SkipsElapsedIntervals(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Three weeks late: the grid stays anchored at StartAt.
	late := time.Date(2026, 1, 20, 10, 0, 0, 0, JST)
	task.Complete(late)

	want := time.Date(2026, 1, 26, 9, 0, 0, 0, JST)
	if !task.NextDueAt.Equal(want) {
		t.Errorf("Expected NextDueAt %v, got %v", want, task.NextDueAt)
	}
	if !task.NextDueAt.After(late) {
		t.Error("Expected NextDueAt strictly after the completion time")
	}
}

func TestComplete_ResetsNotifyState(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	task.MarkOverdueNotified(now.Add(time.Hour))
	task.MarkPreReminded(now.Add(time.Hour))

	task.Complete(now.Add(2 * time.Hour))

	if task.OverdueNotifyCount != 0 {
		t.Errorf("Expected OverdueNotifyCount reset, got %d", task.OverdueNotifyCount)
	}
	if !task.LastOverdueNotifiedAt.IsZero() {
		t.Error("Expected LastOverdueNotifiedAt cleared")
	}
	if !task.LastPreRemindedAt.IsZero() {
		t.Error("Expected LastPreRemindedAt cleared")
	}
}

func TestComplete_ConsumesInventory(t *testing.T) {
	input := validInput()
	input.InventoryItems = []InventoryItem{
		{Name: "洗剤", Stock: 3, Consume: 1},
		{Name: "スポンジ", Stock: 0, Consume: 2},
	}
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(input, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	task.Complete(now)

	if task.InventoryItems[0].Stock != 2 {
		t.Errorf("Expected stock 2, got %d", task.InventoryItems[0].Stock)
	}
	if task.InventoryItems[1].Stock != 0 {
		t.Errorf("Expected stock floored at 0, got %d", task.InventoryItems[1].Stock)
	}
}

func TestPreRemindDue_WindowAndOncePerCycle(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(RemindTaskInput{
		Title:               "ゴミ出し",
		IntervalDays:        1,
		TimeOfDay:           "09:00",
		RemindBeforeMinutes: 60,
	}, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Due tomorrow 09:00.
	due := task.NextDueAt

	if task.PreRemindDue(due.Add(-90 * time.Minute)) {
		t.Error("Expected no pre-reminder before the window opens")
	}
	if !task.PreRemindDue(due.Add(-30 * time.Minute)) {
		t.Error("Expected pre-reminder inside the window")
	}
	if task.PreRemindDue(due) {
		t.Error("Expected no pre-reminder at the due moment")
	}

	task.MarkPreReminded(due.Add(-30 * time.Minute))
	if task.PreRemindDue(due.Add(-20 * time.Minute)) {
		t.Error("Expected pre-reminder suppressed after firing once in the cycle")
	}
}

func TestPreRemindDue_DisabledWhenNoOffset(t *testing.T) {
	now := time.Date(2025, 12, 29, 8, 0, 0, 0, JST)
	task, err := NewRemindTask(RemindTaskInput{
		Title:        "水やり",
		IntervalDays: 1,
		TimeOfDay:    "09:00",
	}, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if task.PreRemindDue(task.NextDueAt.Add(-time.Minute)) {
		t.Error("Expected no pre-reminder when offset is 0")
	}
}

func TestOverdueNoticeDue_LimitAndCycle(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if task.OverdueNoticeDue(now.Add(-time.Minute)) {
		t.Error("Expected no overdue notice before the due moment")
	}
	overdueAt := task.NextDueAt.Add(time.Minute)
	if !task.OverdueNoticeDue(overdueAt) {
		t.Error("Expected overdue notice after the due moment")
	}

	task.MarkOverdueNotified(overdueAt)
	if task.OverdueNotifyCount != 1 {
		t.Errorf("Expected count 1, got %d", task.OverdueNotifyCount)
	}
	if task.OverdueNoticeDue(overdueAt.Add(time.Hour)) {
		t.Error("Expected no second notice within the same cycle at limit 1")
	}
}

func TestOverride_BlankFieldsPreserved(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	task.MarkOverdueNotified(now.Add(time.Hour))
	originalDue := task.NextDueAt
	originalNotified := task.LastOverdueNotifiedAt

	limit := 3
	if err := task.Override(RemindTaskOverride{OverdueNotifyLimit: &limit}, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !task.NextDueAt.Equal(originalDue) {
		t.Errorf("Expected NextDueAt preserved, got %v", task.NextDueAt)
	}
	if task.OverdueNotifyCount != 1 {
		t.Errorf("Expected notify count preserved, got %d", task.OverdueNotifyCount)
	}
	if !task.LastOverdueNotifiedAt.Equal(originalNotified) {
		t.Error("Expected LastOverdueNotifiedAt preserved")
	}
	if task.OverdueNotifyLimit != 3 {
		t.Errorf("Expected limit 3, got %d", task.OverdueNotifyLimit)
	}
}

func TestOverride_NewDueDateResetsCounters(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	task.MarkOverdueNotified(now.Add(time.Hour))

	newDue := time.Date(2026, 1, 10, 9, 0, 0, 0, JST)
	if err := task.Override(RemindTaskOverride{NextDueAt: &newDue}, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !task.NextDueAt.Equal(newDue) {
		t.Errorf("Expected NextDueAt %v, got %v", newDue, task.NextDueAt)
	}
	if task.OverdueNotifyCount != 0 {
		t.Errorf("Expected counters reset, got %d", task.OverdueNotifyCount)
	}
}

func TestOverride_RejectsZeroLimit(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(validInput(), now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	limit := 0
	err = task.Override(RemindTaskOverride{OverdueNotifyLimit: &limit}, now)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestShortageItems(t *testing.T) {
	task := &RemindTask{
		InventoryItems: []InventoryItem{
			{Name: "牛乳", Stock: 0, Consume: 1},
			{Name: "卵", Stock: 6, Consume: 2},
		},
	}
	short := task.ShortageItems()
	if len(short) != 1 {
		t.Fatalf("Expected 1 shortage item, got %d", len(short))
	}
	if short[0].Name != "牛乳" || short[0].Shortage() != 1 {
		t.Errorf("Unexpected shortage item %+v", short[0])
	}
}
