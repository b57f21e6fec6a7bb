package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/resilience"
)

// AccountsClient fetches the account snapshot from the Accounts API.
type AccountsClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewAccountsClient creates a new AccountsClient.
func NewAccountsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AccountsClient {
	return &AccountsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// GetAccounts fetches the full account collection with retry, circuit
// breaker, and tracing.
func (c *AccountsClient) GetAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountsClient.GetAccounts")
	defer span.End()

	var accounts []domain.Account

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/accounts", c.baseURL)
			return getJSON(ctx, c.httpClient, url, "accounts", &accounts)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return accounts, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "accounts", Err: err}
	}

	accts := result.([]domain.Account)
	span.SetAttributes(attribute.Int("accounts.count", len(accts)))
	return accts, nil
}
