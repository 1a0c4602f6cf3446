package testutil

import (
	"context"

	"github.com/billforge/billforge/internal/postgres"
)

// MockPostgresClient satisfies postgres.IClient for service tests backed by
// in-memory stores. WithTx simply runs the function; the in-memory stores
// are their own unit of atomicity.
type MockPostgresClient struct{}

func NewMockPostgresClient() postgres.IClient {
	return &MockPostgresClient{}
}

func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (c *MockPostgresClient) Querier(ctx context.Context) postgres.Querier {
	return nil
}
