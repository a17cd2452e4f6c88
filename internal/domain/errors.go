package domain

import "errors"

// Quote and payment errors
var (
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrQuoteNotPayable = errors.New("quote is not in a payable state")
	ErrCaseNotFound    = errors.New("case not found")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)
