package domain

import "time"

// EventTypeCurrencyMigrated is emitted after a user's ledger changes currency.
const EventTypeCurrencyMigrated = "user.currency_migrated"

// AggregateTypeUser is the aggregate type of user events.
const AggregateTypeUser = "user"

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// CurrencyMigratedEvent payload
type CurrencyMigratedEvent struct {
	UserID       string `json:"user_id"`
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Rate         string `json:"rate"`
	RowsUpdated  int    `json:"rows_updated"`
	SnapshotAsOf string `json:"snapshot_as_of"`
	Source       string `json:"source"`
}

// ToMap converts the payload for storage in the outbox.
func (e CurrencyMigratedEvent) ToMap() map[string]any {
	return map[string]any{
		"user_id":        e.UserID,
		"from_currency":  e.FromCurrency,
		"to_currency":    e.ToCurrency,
		"rate":           e.Rate,
		"rows_updated":   e.RowsUpdated,
		"snapshot_as_of": e.SnapshotAsOf,
		"source":         e.Source,
	}
}
