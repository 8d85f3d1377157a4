package domain

import (
	"errors"
	"strconv"
)

var (
	ErrTaskNotFound         = errors.New("remind task not found")
	ErrChannelNotConfigured = errors.New("channel has no reminder configuration")
)

// ValidationError represents malformed task creation/update input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// FormatError represents a malformed duration string
type FormatError struct {
	Input   string
	Message string
}

func (e *FormatError) Error() string {
	return "invalid duration " + strconv.Quote(e.Input) + ": " + e.Message
}
