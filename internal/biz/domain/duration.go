package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// JST is the fixed civil timezone for all due-date arithmetic.
// Every stored time-of-day is interpreted in this zone.
var JST = time.FixedZone("JST", 9*60*60)

var timeOfDayPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseTimeOfDay parses an "HH:MM" (24h) civil time string
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	if !timeOfDayPattern.MatchString(s) {
		return 0, 0, &ValidationError{Field: "timeOfDay", Message: "must match HH:MM"}
	}
	hour, _ = strconv.Atoi(s[:2])
	minute, _ = strconv.Atoi(s[3:])
	if hour > 23 {
		return 0, 0, &ValidationError{Field: "timeOfDay", Message: "hour out of range"}
	}
	if minute > 59 {
		return 0, 0, &ValidationError{Field: "timeOfDay", Message: "minute out of range"}
	}
	return hour, minute, nil
}

// NextTimeOfDay returns the next JST occurrence of timeOfDay at or after now.
// If today's occurrence has already passed, it rolls to tomorrow.
func NextTimeOfDay(now time.Time, timeOfDay string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	local := now.In(JST)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, JST)
	if candidate.Before(local) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// ParseRemindBefore parses a user-entered pre-reminder offset into total
// minutes. Accepted shapes are "D:HH:MM" and "HH:MM"; the empty string means
// no pre-reminder and parses to 0.
func ParseRemindBefore(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}

	segments := strings.Split(trimmed, ":")
	if len(segments) != 2 && len(segments) != 3 {
		return 0, &FormatError{Input: s, Message: "expected HH:MM or D:HH:MM"}
	}

	values := make([]int, len(segments))
	for i, seg := range segments {
		n, err := strconv.Atoi(strings.TrimSpace(seg))
		if err != nil {
			return 0, &FormatError{Input: s, Message: "non-numeric segment"}
		}
		if n < 0 {
			return 0, &FormatError{Input: s, Message: "negative segment"}
		}
		values[i] = n
	}

	if len(values) == 2 {
		return values[0]*60 + values[1], nil
	}
	return values[0]*24*60 + values[1]*60 + values[2], nil
}

// FormatRemindBefore renders total minutes back into the textual form
// accepted by ParseRemindBefore. The 3-segment form is used when the value
// spans at least one day, so parse(format(m)) == m for any non-negative m.
func FormatRemindBefore(minutes int) string {
	days := minutes / (24 * 60)
	rest := minutes % (24 * 60)
	hours := rest / 60
	mins := rest % 60
	if days > 0 {
		return fmt.Sprintf("%d:%02d:%02d", days, hours, mins)
	}
	return fmt.Sprintf("%02d:%02d", hours, mins)
}

// FormatRemindBeforeHuman renders a pre-reminder offset for display,
// e.g. 1440 -> "1日前", 90 -> "1時間30分前". Zero renders as "なし".
func FormatRemindBeforeHuman(minutes int) string {
	if minutes <= 0 {
		return "なし"
	}
	days := minutes / (24 * 60)
	rest := minutes % (24 * 60)
	hours := rest / 60
	mins := rest % 60

	var sb strings.Builder
	if days > 0 {
		fmt.Fprintf(&sb, "%d日", days)
	}
	if hours > 0 {
		fmt.Fprintf(&sb, "%d時間", hours)
	}
	if mins > 0 {
		fmt.Fprintf(&sb, "%d分", mins)
	}
	sb.WriteString("前")
	return sb.String()
}
