package etl

import (
	"context"

	"github.com/myshopdata/shoploader/internal/api"
)

// PageFetcher retrieves one page of an API endpoint. Implemented by
// api.Client; faked in tests.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint string, page int) (*api.ResourcePage, error)
}
