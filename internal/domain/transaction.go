// Package domain defines the core entities for the analytics service.
// These models are independent of external services and represent the
// canonical data structures used throughout the aggregation pipeline.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Transactions
// ============================================================

// Transaction statuses as reported by the transaction source.
const (
	StatusCompleted = "COMPLETED"
	StatusPending   = "PENDING"
	StatusFailed    = "FAILED"
)

// Well-known transaction types. Sources may report additional
// service-defined codes; aggregation treats the type as opaque.
const (
	TypeDeposit    = "DEPOSIT"
	TypeWithdrawal = "WITHDRAWAL"
	TypeTransfer   = "TRANSFER"
)

// Transaction is a single financial transaction as delivered by the
// transaction source. Timestamps arrive as raw strings and are parsed
// lazily so a malformed record never fails a whole snapshot.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Timestamp   string          `json:"timestamp"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
	Status      string          `json:"status,omitempty"`
	FromAccount string          `json:"fromAccount,omitempty"`
	ToAccount   string          `json:"toAccount,omitempty"`
	Actor       string          `json:"actor"`
}

// timestampLayouts are tried in order when parsing source timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OccurredAt returns the parsed transaction timestamp.
// ok is false when the timestamp is absent or unparseable; such
// transactions are excluded from aggregation and counted as skipped.
func (t Transaction) OccurredAt() (time.Time, bool) {
	return parseInstant(t.Timestamp)
}

// ProcessingLatency returns updatedAt - createdAt. ok is false when
// either instant is missing, unparseable, or the span is negative.
func (t Transaction) ProcessingLatency() (time.Duration, bool) {
	created, ok := parseInstant(t.CreatedAt)
	if !ok {
		return 0, false
	}
	updated, ok := parseInstant(t.UpdatedAt)
	if !ok {
		return 0, false
	}
	d := updated.Sub(created)
	if d < 0 {
		return 0, false
	}
	return d, true
}

// EffectiveStatus resolves an absent status to COMPLETED. This is a
// source data policy, not an error condition.
func (t Transaction) EffectiveStatus() string {
	if t.Status == "" {
		return StatusCompleted
	}
	return t.Status
}

// IsCompleted reports whether the transaction counts as completed
// after status resolution.
func (t Transaction) IsCompleted() bool {
	return t.EffectiveStatus() == StatusCompleted
}

// ============================================================
// Accounts
// ============================================================

// Account is an account record from the account source.
type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	UserID        string          `json:"userId"`
	Status        string          `json:"status"`
}

// ============================================================
// Users
// ============================================================

// User is a user record from the user source.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ============================================================
// Snapshot
// ============================================================

// Snapshot bundles the immutable source collections consumed by one
// aggregation cycle. A source that failed to respond contributes an
// empty (never nil-dereferenced) slice.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Accounts     []Account     `json:"accounts"`
	Users        []User        `json:"users"`
}
