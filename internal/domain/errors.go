package domain

import "errors"

var (
	// Currency errors
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrRateUnavailable     = errors.New("no rate available")

	// Amount errors
	ErrInvalidAmount = errors.New("invalid amount")

	// Rate acquisition errors
	ErrAcquisition      = errors.New("rate acquisition failed")
	ErrEmptyFeed        = errors.New("feed returned no rates")
	ErrSnapshotNotFound = errors.New("rate snapshot not found")

	// Record errors
	ErrUserNotFound = errors.New("user not found")
)
