package warehouse

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/myshopdata/shoploader/pkg/logger"
	"github.com/myshopdata/shoploader/pkg/models"
)

// MongoLoader writes datasets into MongoDB collections, one per
// resource, as an alternative warehouse target.
type MongoLoader struct {
	Client   *mongo.Client
	Database string
}

func (m *MongoLoader) Load(ctx context.Context, schema *models.ResourceSchema, records []map[string]interface{}) (*LoadResult, error) {
	collName := strings.ToLower(schema.Table)
	coll := m.Client.Database(m.Database).Collection(collName)

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Full load: replace the collection contents wholesale.
	if _, err := coll.DeleteMany(opCtx, bson.M{}); err != nil {
		return nil, &LoadError{Table: collName, Err: err}
	}

	if len(records) == 0 {
		logger.Infof("Loaded 0 records into %s.%s", m.Database, collName)
		return &LoadResult{}, nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}

	res, err := coll.InsertMany(opCtx, docs)
	if err != nil {
		return nil, &LoadError{Table: collName, Err: err}
	}

	logger.Infof("Loaded %d records into %s.%s", len(res.InsertedIDs), m.Database, collName)
	return &LoadResult{RecordsLoaded: len(res.InsertedIDs)}, nil
}
