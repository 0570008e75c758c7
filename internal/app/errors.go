package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNoIssues      = errors.New("no suitable issues found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrChatDisabled  = errors.New("chat is disabled")
	ErrNotConfigured = errors.New("service dependency not configured")
)
