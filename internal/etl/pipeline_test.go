package etl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myshopdata/shoploader/internal/api"
	"github.com/myshopdata/shoploader/internal/warehouse"
	"github.com/myshopdata/shoploader/pkg/models"
)

// endpointFetcher serves one single-page dataset per endpoint.
type endpointFetcher struct {
	pages   map[string][]api.RawRecord
	fetched []string
}

func (f *endpointFetcher) FetchPage(ctx context.Context, endpoint string, page int) (*api.ResourcePage, error) {
	f.fetched = append(f.fetched, endpoint)
	return &api.ResourcePage{Records: f.pages[endpoint], CurrentPage: 1, TotalPages: 1}, nil
}

// recordingLoader captures Load calls and can fail a chosen table.
type recordingLoader struct {
	loaded    []string
	records   map[string][]map[string]interface{}
	failTable string
	failErr   error
}

func (l *recordingLoader) Load(ctx context.Context, schema *models.ResourceSchema, records []map[string]interface{}) (*warehouse.LoadResult, error) {
	if schema.Table == l.failTable {
		return nil, l.failErr
	}
	l.loaded = append(l.loaded, schema.Table)
	if l.records == nil {
		l.records = make(map[string][]map[string]interface{})
	}
	l.records[schema.Table] = records
	return &warehouse.LoadResult{RecordsLoaded: len(records)}, nil
}

func allDatasets() map[string][]api.RawRecord {
	return map[string][]api.RawRecord{
		"/api/customers": {
			{"id": "c1", "email": "a@example.com"},
		},
		"/api/orders": {
			{"id": "o1", "customer_id": "c1"},
		},
		"/api/order-line-items": {
			{"id": "li1", "order_id": "o1"},
		},
	}
}

func TestPipelineRun(t *testing.T) {
	t.Run("loads datasets in dependency order", func(t *testing.T) {
		fetcher := &endpointFetcher{pages: allDatasets()}
		loader := &recordingLoader{}
		pipe := NewPipeline(fetcher, loader, "myshop_api", false)

		err := pipe.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"CUSTOMERS", "ORDERS", "ORDER_LINE_ITEMS"}, loader.loaded)
		assert.Equal(t, []string{"/api/customers", "/api/orders", "/api/order-line-items"}, fetcher.fetched)
	})

	t.Run("a customers load failure stops before orders", func(t *testing.T) {
		fetcher := &endpointFetcher{pages: allDatasets()}
		loader := &recordingLoader{
			failTable: "CUSTOMERS",
			failErr:   &warehouse.LoadError{Table: "CUSTOMERS", Err: assert.AnError},
		}
		pipe := NewPipeline(fetcher, loader, "myshop_api", false)

		err := pipe.Run(context.Background())

		var runErr *RunError
		require.ErrorAs(t, err, &runErr)
		assert.Equal(t, models.ResourceCustomers, runErr.Resource)
		assert.Equal(t, StageLoad, runErr.Stage)
		assert.Empty(t, loader.loaded, "orders and line items must not load")
		assert.Equal(t, []string{"/api/customers"}, fetcher.fetched, "later datasets are never extracted")
	})

	t.Run("a transform failure skips the load for that dataset", func(t *testing.T) {
		pages := allDatasets()
		pages["/api/customers"] = []api.RawRecord{{"email": "a@example.com"}} // no id
		fetcher := &endpointFetcher{pages: pages}
		loader := &recordingLoader{}
		pipe := NewPipeline(fetcher, loader, "myshop_api", false)

		err := pipe.Run(context.Background())

		var runErr *RunError
		require.ErrorAs(t, err, &runErr)
		assert.Equal(t, StageTransform, runErr.Stage)
		var trErr *TransformError
		assert.ErrorAs(t, err, &trErr)
		assert.Empty(t, loader.loaded)
	})

	t.Run("an extraction failure names the dataset and stage", func(t *testing.T) {
		fetcher := &failingFetcher{err: &api.FetchError{Endpoint: "/api/customers", Page: 1, Err: assert.AnError}}
		loader := &recordingLoader{}
		pipe := NewPipeline(fetcher, loader, "myshop_api", false)

		err := pipe.Run(context.Background())

		var runErr *RunError
		require.ErrorAs(t, err, &runErr)
		assert.Equal(t, models.ResourceCustomers, runErr.Resource)
		assert.Equal(t, StageExtract, runErr.Stage)
		var fetchErr *api.FetchError
		assert.ErrorAs(t, err, &fetchErr)
	})

	t.Run("dry run never touches the loader", func(t *testing.T) {
		fetcher := &endpointFetcher{pages: allDatasets()}
		pipe := NewPipeline(fetcher, nil, "myshop_api", true)

		err := pipe.Run(context.Background())

		require.NoError(t, err)
	})

	t.Run("loaded records carry lineage metadata", func(t *testing.T) {
		fetcher := &endpointFetcher{pages: allDatasets()}
		loader := &recordingLoader{}
		pipe := NewPipeline(fetcher, loader, "myshop_api", false)

		require.NoError(t, pipe.Run(context.Background()))

		for table, records := range loader.records {
			require.Len(t, records, 1, table)
			assert.Equal(t, "myshop_api", records[0][models.FieldSource])
			assert.NotNil(t, records[0][models.FieldLoadedAt])
		}
	})
}

func TestPipelineRunDataset(t *testing.T) {
	t.Run("syncs a single dataset", func(t *testing.T) {
		fetcher := &endpointFetcher{pages: allDatasets()}
		loader := &recordingLoader{}
		pipe := NewPipeline(fetcher, loader, "myshop_api", false)

		err := pipe.RunDataset(context.Background(), models.ResourceOrders)

		require.NoError(t, err)
		assert.Equal(t, []string{"ORDERS"}, loader.loaded)
	})
}

type failingFetcher struct {
	err error
}

func (f *failingFetcher) FetchPage(ctx context.Context, endpoint string, page int) (*api.ResourcePage, error) {
	return nil, f.err
}
