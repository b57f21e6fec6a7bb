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

// UsersClient fetches the user snapshot from the Users API.
type UsersClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewUsersClient creates a new UsersClient.
func NewUsersClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// GetUsers fetches the full user collection with retry, circuit
// breaker, and tracing.
func (c *UsersClient) GetUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "UsersClient.GetUsers")
	defer span.End()

	var users []domain.User

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/users", c.baseURL)
			return getJSON(ctx, c.httpClient, url, "users", &users)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return users, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "users", Err: err}
	}

	us := result.([]domain.User)
	span.SetAttributes(attribute.Int("users.count", len(us)))
	return us, nil
}
