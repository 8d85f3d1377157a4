package domain

import (
	"strings"
	"testing"
	"time"
)

func weeklyTask(t *testing.T) *RemindTask {
	t.Helper()
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, JST)
	task, err := NewRemindTask(RemindTaskInput{
		Title:               "掃除",
		IntervalDays:        7,
		TimeOfDay:           "09:00",
		RemindBeforeMinutes: 1440,
	}, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	task.Complete(now)
	return task
}

func TestFormatSummaryText_HalfwayProgress(t *testing.T) {
	task := weeklyTask(t)
	// Halfway through the 7-day interval.
	now := task.PreviousDueAt().Add(task.Interval() / 2)

	text := FormatSummaryText(task, now)
	if !strings.Contains(text, "[#####-----]") {
		t.Errorf("Expected half-filled bar in %q", text)
	}
	if !strings.Contains(text, "50%") {
		t.Errorf("Expected 50%% in %q", text)
	}
	if !strings.Contains(text, "2026-01-05 09:00") {
		t.Errorf("Expected due date in %q", text)
	}
}

func TestFormatSummaryText_ClampsOutOfRange(t *testing.T) {
	task := weeklyTask(t)

	before := FormatSummaryText(task, task.PreviousDueAt().Add(-time.Hour))
	if !strings.Contains(before, "[----------] 0%") {
		t.Errorf("Expected empty bar before cycle start, got %q", before)
	}

	after := FormatSummaryText(task, task.NextDueAt.Add(time.Hour))
	if !strings.Contains(after, "[##########] 100%") {
		t.Errorf("Expected full bar after due, got %q", after)
	}
}

func TestFormatDetailText(t *testing.T) {
	task := weeklyTask(t)
	task.Description = "部屋の掃除"
	task.InventoryItems = []InventoryItem{
		{Name: "洗剤", Stock: 2, Consume: 1},
		{Name: "ゴミ袋", Stock: 10, Consume: 3},
	}

	text := FormatDetailText(task)
	for _, want := range []string{
		"タイトル: 掃除",
		"間隔: 7日ごと",
		"時刻: 09:00",
		"事前通知: 1日前",
		"説明: 部屋の掃除",
		"在庫: 洗剤 在庫2/消費1, ゴミ袋 在庫10/消費3",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in detail text %q", want, text)
		}
	}
}

func TestFormatDetailText_OmitsEmptyInventory(t *testing.T) {
	task := weeklyTask(t)
	text := FormatDetailText(task)
	if strings.Contains(text, "在庫:") {
		t.Errorf("Expected no inventory line in %q", text)
	}
}

func TestFormatPreRemindText_LargestWholeUnit(t *testing.T) {
	task := weeklyTask(t)

	hours := FormatPreRemindText(task, task.NextDueAt.Add(-24*time.Hour))
	if hours != "@everyone 掃除の期限まであと24時間になりました。" {
		t.Errorf("Unexpected text %q", hours)
	}

	minutes := FormatPreRemindText(task, task.NextDueAt.Add(-30*time.Minute))
	if minutes != "@everyone 掃除の期限まであと30分になりました。" {
		t.Errorf("Unexpected text %q", minutes)
	}
}

func TestFormatShortageText(t *testing.T) {
	text := FormatShortageText(InventoryItem{Name: "牛乳", Stock: 0, Consume: 1})
	if text != "牛乳の在庫が1個不足しています。" {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestFormatOverdueText(t *testing.T) {
	task := weeklyTask(t)
	text := FormatOverdueText(task)
	if text != "@everyone 掃除の期限を過ぎています。" {
		t.Errorf("Unexpected text %q", text)
	}
}
