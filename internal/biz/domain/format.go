package domain

import (
	"fmt"
	"strings"
	"time"
)

const progressBarWidth = 10

// FormatSummaryText renders the single-line status shown on the task's
// message: the next due moment plus a progress bar for the elapsed fraction
// of the current interval.
func FormatSummaryText(t *RemindTask, now time.Time) string {
	elapsed := now.Sub(t.PreviousDueAt())
	ratio := float64(elapsed) / float64(t.Interval())
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * progressBarWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled)

	return fmt.Sprintf("次回期限: %s [%s] %d%%",
		t.NextDueAt.In(JST).Format("2006-01-02 15:04"), bar, int(ratio*100))
}

// FormatDetailText renders the multi-line detail block for a task.
func FormatDetailText(t *RemindTask) string {
	lines := []string{
		fmt.Sprintf("タイトル: %s", t.Title),
		fmt.Sprintf("間隔: %d日ごと", t.IntervalDays),
		fmt.Sprintf("時刻: %s", t.TimeOfDay),
		fmt.Sprintf("事前通知: %s", FormatRemindBeforeHuman(t.RemindBeforeMinutes)),
	}
	if t.Description != "" {
		lines = append(lines, fmt.Sprintf("説明: %s", t.Description))
	}
	if len(t.InventoryItems) > 0 {
		items := make([]string, len(t.InventoryItems))
		for i, item := range t.InventoryItems {
			items[i] = fmt.Sprintf("%s 在庫%d/消費%d", item.Name, item.Stock, item.Consume)
		}
		lines = append(lines, fmt.Sprintf("在庫: %s", strings.Join(items, ", ")))
	}
	return strings.Join(lines, "\n")
}

// FormatPreRemindText renders the pre-reminder notice. The remaining time is
// shown in the largest whole unit that fits (hours, otherwise minutes).
func FormatPreRemindText(t *RemindTask, now time.Time) string {
	remaining := t.NextDueAt.Sub(now)
	var n int
	var unit string
	if remaining >= time.Hour {
		n = int(remaining / time.Hour)
		unit = "時間"
	} else {
		n = int(remaining / time.Minute)
		unit = "分"
	}
	return fmt.Sprintf("@everyone %sの期限まであと%d%sになりました。", t.Title, n, unit)
}

// FormatShortageText renders the inventory shortage notice for one item.
func FormatShortageText(item InventoryItem) string {
	return fmt.Sprintf("%sの在庫が%d個不足しています。", item.Name, item.Shortage())
}

// FormatOverdueText renders the overdue notice.
func FormatOverdueText(t *RemindTask) string {
	return fmt.Sprintf("@everyone %sの期限を過ぎています。", t.Title)
}
