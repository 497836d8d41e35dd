package etl

import (
	"fmt"
	"time"

	"github.com/myshopdata/shoploader/internal/api"
	"github.com/myshopdata/shoploader/pkg/models"
	"github.com/myshopdata/shoploader/pkg/utils"
)

// TransformError signals a raw record that cannot be shaped into the
// target schema. A warehouse load with missing required columns is
// worse than a loud failure, so the dataset aborts.
type TransformError struct {
	Resource models.Resource
	Field    string
	Msg      string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transforming %s record: field %q: %s", e.Resource, e.Field, e.Msg)
}

// Transformer shapes raw API records into their warehouse form:
// nested objects flattened per the schema, unknown fields dropped,
// lineage columns appended.
type Transformer struct {
	Source string
}

func NewTransformer(source string) *Transformer {
	return &Transformer{Source: source}
}

// TransformDataset maps every raw record of one resource, failing on
// the first record that violates the schema. The _loaded_at stamp is
// captured once so the whole dataset shares one load timestamp.
func (t *Transformer) TransformDataset(schema *models.ResourceSchema, raw []api.RawRecord) ([]map[string]interface{}, error) {
	loadedAt := time.Now().UTC().Truncate(time.Second)

	out := make([]map[string]interface{}, 0, len(raw))
	for _, rec := range raw {
		doc, err := t.transformRecord(schema, rec, loadedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (t *Transformer) transformRecord(schema *models.ResourceSchema, raw api.RawRecord, loadedAt time.Time) (map[string]interface{}, error) {
	doc := make(map[string]interface{}, len(schema.Fields)+2)

	for _, f := range schema.Fields {
		val, ok, err := lookupField(schema.Resource, raw, f)
		if err != nil {
			return nil, err
		}
		if !ok || val == nil {
			if f.Required {
				return nil, &TransformError{Resource: schema.Resource, Field: f.Name, Msg: "required field missing"}
			}
			doc[f.Name] = nil
			continue
		}

		converted, err := utils.CoerceValue(val, f)
		if err != nil {
			return nil, &TransformError{Resource: schema.Resource, Field: f.Name, Msg: err.Error()}
		}
		doc[f.Name] = converted
	}

	doc[models.FieldLoadedAt] = loadedAt
	doc[models.FieldSource] = t.Source
	return doc, nil
}

func lookupField(resource models.Resource, raw api.RawRecord, f models.FieldSpec) (interface{}, bool, error) {
	if f.FlattenFrom == "" {
		val, ok := raw[f.Name]
		return val, ok, nil
	}

	nested, ok := raw[f.FlattenFrom]
	if !ok || nested == nil {
		return nil, false, nil
	}
	obj, isMap := nested.(map[string]interface{})
	if !isMap {
		return nil, false, &TransformError{
			Resource: resource,
			Field:    f.FlattenFrom,
			Msg:      fmt.Sprintf("expected nested object, got %T", nested),
		}
	}
	val, ok := obj[f.Name]
	return val, ok, nil
}
