// Package port defines the interfaces (ports) for external
// dependencies. Following hexagonal architecture, these ports decouple
// the aggregation core from concrete source implementations.
package port

import (
	"context"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
)

// TransactionSource retrieves the transaction snapshot.
type TransactionSource interface {
	GetTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// AccountSource retrieves the account snapshot.
type AccountSource interface {
	GetAccounts(ctx context.Context) ([]domain.Account, error)
}

// UserSource retrieves the user snapshot.
type UserSource interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
