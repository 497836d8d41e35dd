// Package models defines the hard-coded warehouse schemas for the
// MyShop resources and the order in which they must be loaded.
package models

import "fmt"

// Resource identifies one MyShop collection that gets synced into
// its own warehouse table.
type Resource string

const (
	ResourceCustomers Resource = "customers"
	ResourceOrders    Resource = "orders"
	ResourceLineItems Resource = "order_line_items"
)

// Warehouse column types.
const (
	TypeString    = "STRING"
	TypeNumber    = "NUMBER"
	TypeTimestamp = "TIMESTAMP_TZ"
)

// Lineage columns appended to every record at transformation time.
const (
	FieldLoadedAt = "_loaded_at"
	FieldSource   = "_source"
)

// FieldSpec describes one target column: where its value comes from
// in the raw API record and what warehouse type it gets.
type FieldSpec struct {
	Name     string
	Type     string
	Required bool
	// FlattenFrom names a nested object on the raw record whose field
	// of the same Name feeds this column. Empty means top-level.
	FlattenFrom string
}

// ResourceSchema is the fixed target shape for one resource. Raw
// fields not listed here are dropped during transformation.
type ResourceSchema struct {
	Resource Resource
	Endpoint string
	Table    string
	Fields   []FieldSpec
}

// Columns returns the full ordered column list including lineage.
func (s *ResourceSchema) Columns() []string {
	cols := make([]string, 0, len(s.Fields)+2)
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	return append(cols, FieldLoadedAt, FieldSource)
}

// ColumnType returns the warehouse type of a column, including the
// lineage columns.
func (s *ResourceSchema) ColumnType(name string) string {
	switch name {
	case FieldLoadedAt:
		return TypeTimestamp
	case FieldSource:
		return TypeString
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return TypeString
}

// LoadOrder is the dependency order for a full sync. Line items carry
// a foreign key to orders and orders to customers, so parents load
// first to keep warehouse consumers free of dangling references.
func LoadOrder() []Resource {
	return []Resource{ResourceCustomers, ResourceOrders, ResourceLineItems}
}

// ParseResource maps a user-supplied name to a known Resource.
func ParseResource(name string) (Resource, error) {
	switch Resource(name) {
	case ResourceCustomers, ResourceOrders, ResourceLineItems:
		return Resource(name), nil
	}
	return "", fmt.Errorf("unknown dataset %q (expected customers, orders or order_line_items)", name)
}

var customersSchema = ResourceSchema{
	Resource: ResourceCustomers,
	Endpoint: "/api/customers",
	Table:    "CUSTOMERS",
	Fields: []FieldSpec{
		{Name: "id", Type: TypeString, Required: true},
		{Name: "email", Type: TypeString, Required: true},
		{Name: "first_name", Type: TypeString},
		{Name: "last_name", Type: TypeString},
		{Name: "phone", Type: TypeString},
		{Name: "street", Type: TypeString, FlattenFrom: "address"},
		{Name: "city", Type: TypeString, FlattenFrom: "address"},
		{Name: "state", Type: TypeString, FlattenFrom: "address"},
		{Name: "zip_code", Type: TypeString, FlattenFrom: "address"},
		{Name: "country", Type: TypeString, FlattenFrom: "address"},
		{Name: "created_at", Type: TypeTimestamp},
		{Name: "updated_at", Type: TypeTimestamp},
	},
}

var ordersSchema = ResourceSchema{
	Resource: ResourceOrders,
	Endpoint: "/api/orders",
	Table:    "ORDERS",
	Fields: []FieldSpec{
		{Name: "id", Type: TypeString, Required: true},
		{Name: "customer_id", Type: TypeString, Required: true},
		{Name: "order_number", Type: TypeString},
		{Name: "status", Type: TypeString},
		{Name: "total_amount", Type: TypeNumber},
		{Name: "currency", Type: TypeString},
		{Name: "order_date", Type: TypeTimestamp},
		{Name: "shipped_date", Type: TypeTimestamp},
		{Name: "delivered_date", Type: TypeTimestamp},
		{Name: "created_at", Type: TypeTimestamp},
		{Name: "updated_at", Type: TypeTimestamp},
	},
}

var lineItemsSchema = ResourceSchema{
	Resource: ResourceLineItems,
	Endpoint: "/api/order-line-items",
	Table:    "ORDER_LINE_ITEMS",
	Fields: []FieldSpec{
		{Name: "id", Type: TypeString, Required: true},
		{Name: "order_id", Type: TypeString, Required: true},
		{Name: "product_id", Type: TypeString},
		{Name: "product_name", Type: TypeString},
		{Name: "quantity", Type: TypeNumber},
		{Name: "unit_price", Type: TypeNumber},
		{Name: "total_price", Type: TypeNumber},
		{Name: "created_at", Type: TypeTimestamp},
		{Name: "updated_at", Type: TypeTimestamp},
	},
}

// SchemaFor returns the fixed schema for a resource.
func SchemaFor(r Resource) (*ResourceSchema, error) {
	switch r {
	case ResourceCustomers:
		return &customersSchema, nil
	case ResourceOrders:
		return &ordersSchema, nil
	case ResourceLineItems:
		return &lineItemsSchema, nil
	default:
		return nil, fmt.Errorf("no schema defined for resource %q", r)
	}
}
