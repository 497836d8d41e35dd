// Package warehouse holds the load side of the pipeline: the Loader
// contract plus the SQL Server and MongoDB implementations.
package warehouse

import (
	"context"
	"fmt"

	"github.com/myshopdata/shoploader/pkg/models"
)

// Loader performs a full load of one transformed dataset into its
// warehouse table.
type Loader interface {
	Load(ctx context.Context, schema *models.ResourceSchema, records []map[string]interface{}) (*LoadResult, error)
}

// LoadResult summarizes what one Load call wrote.
type LoadResult struct {
	RecordsLoaded  int
	RecordsSkipped int
}

// LoadError wraps any warehouse write failure.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading table %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
