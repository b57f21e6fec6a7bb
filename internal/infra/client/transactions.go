// Package client implements the HTTP adapters for the external
// snapshot sources. Every fetch runs inside the shared circuit breaker
// with retry + backoff, and is traced.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nihonor/frontend-banking-sytem-sub000/internal/domain"
	"github.com/nihonor/frontend-banking-sytem-sub000/internal/infra/resilience"
)

var tracer = otel.Tracer("infra/client")

// TransactionsClient fetches the transaction snapshot from the
// Transactions API.
type TransactionsClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewTransactionsClient creates a new TransactionsClient.
func NewTransactionsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *TransactionsClient {
	return &TransactionsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// GetTransactions fetches the full transaction collection with retry,
// circuit breaker, and tracing.
func (c *TransactionsClient) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionsClient.GetTransactions")
	defer span.End()

	var transactions []domain.Transaction

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/transactions", c.baseURL)
			return getJSON(ctx, c.httpClient, url, "transactions", &transactions)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return transactions, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "transactions", Err: err}
	}

	txns := result.([]domain.Transaction)
	span.SetAttributes(attribute.Int("transactions.count", len(txns)))
	return txns, nil
}

// getJSON performs one GET and decodes the response body into out.
func getJSON(ctx context.Context, httpClient *http.Client, url, resource string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &domain.ErrNotFound{Resource: resource, ID: url}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API returned status %d", resource, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
