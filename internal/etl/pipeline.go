package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/myshopdata/shoploader/internal/warehouse"
	"github.com/myshopdata/shoploader/pkg/logger"
	"github.com/myshopdata/shoploader/pkg/models"
)

// Stage names the pipeline phase a dataset was in when it failed.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
)

// RunError reports which dataset and stage halted the run. Datasets
// already loaded stay in the warehouse; later datasets never start.
type RunError struct {
	Resource models.Resource
	Stage    Stage
	Err      error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("dataset %s failed during %s: %v", e.Resource, e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Pipeline runs the full sync: extract, transform and load each
// dataset sequentially in dependency order.
type Pipeline struct {
	Paginator   *Paginator
	Transformer *Transformer
	Loader      warehouse.Loader
	DryRun      bool
}

func NewPipeline(fetcher PageFetcher, loader warehouse.Loader, source string, dryRun bool) *Pipeline {
	return &Pipeline{
		Paginator:   NewPaginator(fetcher),
		Transformer: NewTransformer(source),
		Loader:      loader,
		DryRun:      dryRun,
	}
}

// Run syncs every dataset in dependency order: customers first, then
// orders, then line items. The first failure halts the run so child
// tables are never loaded ahead of their parents.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	logger.Infof("Sync started. DryRun: %v", p.DryRun)

	for _, resource := range models.LoadOrder() {
		if err := p.RunDataset(ctx, resource); err != nil {
			logger.Errorf("Sync aborted: %v", err)
			return err
		}
	}

	logger.Infof("Sync finished in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// RunDataset extracts, transforms and loads a single dataset.
func (p *Pipeline) RunDataset(ctx context.Context, resource models.Resource) error {
	schema, err := models.SchemaFor(resource)
	if err != nil {
		return &RunError{Resource: resource, Stage: StageExtract, Err: err}
	}

	start := time.Now()
	logger.Infof("Dataset %s: extracting from %s", resource, schema.Endpoint)

	raw, err := p.Paginator.FetchAll(ctx, schema)
	if err != nil {
		return &RunError{Resource: resource, Stage: StageExtract, Err: err}
	}
	logger.Infof("Dataset %s: fetched %d records", resource, len(raw))

	records, err := p.Transformer.TransformDataset(schema, raw)
	if err != nil {
		return &RunError{Resource: resource, Stage: StageTransform, Err: err}
	}

	if p.DryRun {
		logger.Infof("[DRY RUN] Dataset %s: would load %d records into %s", resource, len(records), schema.Table)
		return nil
	}

	logger.Infof("Dataset %s: loading into %s", resource, schema.Table)
	result, err := p.Loader.Load(ctx, schema, records)
	if err != nil {
		return &RunError{Resource: resource, Stage: StageLoad, Err: err}
	}

	duration := time.Since(start)
	rate := 0.0
	if duration.Seconds() > 0 {
		rate = float64(result.RecordsLoaded) / duration.Seconds()
	}
	logger.Infof("Dataset %s: done. Loaded: %d, Skipped: %d, Rate: %.2f records/sec",
		resource, result.RecordsLoaded, result.RecordsSkipped, rate)
	return nil
}
