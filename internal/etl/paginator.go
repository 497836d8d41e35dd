package etl

import (
	"context"
	"fmt"

	"github.com/myshopdata/shoploader/internal/api"
	"github.com/myshopdata/shoploader/pkg/models"
)

// PaginationError signals that the API violated its own pagination
// contract mid-extraction, e.g. total_pages changing between pages.
// Aborting beats silently truncating or looping forever.
type PaginationError struct {
	Endpoint string
	Page     int
	Msg      string
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("pagination broken on %s page %d: %s", e.Endpoint, e.Page, e.Msg)
}

// Paginator drives a PageFetcher from page 1 until the API reports
// the last page, concatenating records in page order.
type Paginator struct {
	Fetcher PageFetcher
}

func NewPaginator(fetcher PageFetcher) *Paginator {
	return &Paginator{Fetcher: fetcher}
}

// FetchAll retrieves the complete raw collection for one resource.
// Fetch errors propagate unchanged; the partial result is discarded.
func (p *Paginator) FetchAll(ctx context.Context, schema *models.ResourceSchema) ([]api.RawRecord, error) {
	var records []api.RawRecord
	totalPages := 0

	for page := 1; ; page++ {
		rp, err := p.Fetcher.FetchPage(ctx, schema.Endpoint, page)
		if err != nil {
			return nil, err
		}

		if page == 1 {
			totalPages = rp.TotalPages
			if totalPages <= 0 || len(rp.Records) == 0 {
				return nil, nil
			}
		} else if rp.TotalPages != totalPages {
			return nil, &PaginationError{
				Endpoint: schema.Endpoint,
				Page:     page,
				Msg:      fmt.Sprintf("total_pages changed from %d to %d", totalPages, rp.TotalPages),
			}
		}

		if rp.CurrentPage != page {
			return nil, &PaginationError{
				Endpoint: schema.Endpoint,
				Page:     page,
				Msg:      fmt.Sprintf("requested page %d but got page %d", page, rp.CurrentPage),
			}
		}

		records = append(records, rp.Records...)

		if rp.CurrentPage >= totalPages {
			return records, nil
		}
	}
}
