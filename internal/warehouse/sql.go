package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/myshopdata/shoploader/pkg/logger"
	"github.com/myshopdata/shoploader/pkg/models"
)

// SQLLoader writes datasets into SQL Server warehouse tables.
type SQLLoader struct {
	DB       *sql.DB
	Database string
	Schema   string
}

func (l *SQLLoader) Load(ctx context.Context, schema *models.ResourceSchema, records []map[string]interface{}) (*LoadResult, error) {
	table := l.qualifiedName(schema.Table)

	if err := l.ensureTable(ctx, schema); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}
	defer tx.Rollback()

	// Full load: replace the table contents wholesale.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}

	cols := schema.Columns()
	insertQuery := buildInsertQuery(table, cols)

	loaded := 0
	for _, rec := range records {
		args := make([]interface{}, 0, len(cols))
		for _, col := range cols {
			args = append(args, rec[col])
		}
		if _, err := tx.ExecContext(ctx, insertQuery, args...); err != nil {
			return nil, &LoadError{Table: table, Err: err}
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}

	logger.Infof("Loaded %d records into %s", loaded, table)
	return &LoadResult{RecordsLoaded: loaded}, nil
}

func (l *SQLLoader) qualifiedName(table string) string {
	return fmt.Sprintf("[%s].[%s].[%s]", l.Database, l.Schema, table)
}

func (l *SQLLoader) ensureTable(ctx context.Context, schema *models.ResourceSchema) error {
	var defs []string
	for _, col := range schema.Columns() {
		defs = append(defs, fmt.Sprintf("[%s] %s", col, sqlColumnType(schema.ColumnType(col))))
	}

	query := fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		l.qualifiedName(schema.Table), l.qualifiedName(schema.Table), strings.Join(defs, ", "))

	_, err := l.DB.ExecContext(ctx, query)
	return err
}

func buildInsertQuery(table string, cols []string) string {
	names := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	for i, col := range cols {
		names = append(names, fmt.Sprintf("[%s]", col))
		placeholders = append(placeholders, fmt.Sprintf("@p%d", i+1))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
}

func sqlColumnType(warehouseType string) string {
	switch warehouseType {
	case models.TypeNumber:
		return "FLOAT"
	case models.TypeTimestamp:
		return "DATETIMEOFFSET"
	default:
		return "NVARCHAR(MAX)"
	}
}
