package domain

import (
	"errors"
	"time"
)

// User is the owner of a ledger. Every monetary value belonging to the
// user is expressed in Currency.
type User struct {
	ID        string
	Email     string
	Name      string
	Currency  CurrencyCode
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrUserExists is returned when the email is already registered.
var ErrUserExists = errors.New("user already exists")

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
