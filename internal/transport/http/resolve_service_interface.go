package http

import (
	"context"

	"tickerlens/pkg/contracts/domain"
)

// ResolveServiceInterface defines what handlers need from the service layer.
type ResolveServiceInterface interface {
	Resolve(ctx context.Context, query string) (domain.ResolveResult, error)
	Rebuild(ctx context.Context) (domain.CatalogInfo, error)
	CatalogInfo(ctx context.Context) (domain.CatalogInfo, error)
	Tickers(ctx context.Context) ([]string, error)
	Ready(ctx context.Context) error
}
