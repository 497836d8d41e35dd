package cli

import (
	"context"
	"fmt"

	"github.com/myshopdata/shoploader/internal/api"
	"github.com/myshopdata/shoploader/internal/config"
	"github.com/myshopdata/shoploader/internal/etl"
	"github.com/myshopdata/shoploader/internal/warehouse"
	"github.com/myshopdata/shoploader/pkg/database"
	"github.com/myshopdata/shoploader/pkg/models"
)

func runSync(opts *SyncOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	client := api.NewClient(cfg.BaseURL, cfg.APIToken, opts.PerPage)

	var loader warehouse.Loader
	switch cfg.WarehouseDriver {
	case config.DriverSQLServer:
		db, err := database.ConnectSQL(cfg.WarehouseConn)
		if err != nil {
			return err
		}
		defer db.Close()
		loader = &warehouse.SQLLoader{DB: db, Database: cfg.WarehouseDatabase, Schema: cfg.WarehouseSchema}
	case config.DriverMongoDB:
		mongoClient, err := database.ConnectMongo(cfg.WarehouseConn)
		if err != nil {
			return err
		}
		defer mongoClient.Disconnect(ctx)
		loader = &warehouse.MongoLoader{Client: mongoClient, Database: cfg.WarehouseDatabase}
	default:
		return fmt.Errorf("unsupported warehouse driver %q", cfg.WarehouseDriver)
	}

	pipeline := etl.NewPipeline(client, loader, cfg.Source, opts.DryRun)

	if opts.Dataset != "" {
		resource, err := models.ParseResource(opts.Dataset)
		if err != nil {
			return err
		}
		return pipeline.RunDataset(ctx, resource)
	}

	return pipeline.Run(ctx)
}
