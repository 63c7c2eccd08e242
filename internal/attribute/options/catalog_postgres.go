// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package options

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	// Registers the "postgres" dialect.
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/translatedtags/internal/platform/dberr"
	"github.com/taibuivan/translatedtags/internal/platform/postgres"
)

var (
	dialect = goqu.Dialect("postgres")

	infoTables  = goqu.S("information_schema").Table("tables")
	infoColumns = goqu.S("information_schema").Table("columns")
	pgIndexes   = goqu.S("pg_catalog").Table("pg_indexes")

	systemSchemas = []string{"pg_catalog", "information_schema"}
)

// PostgresCatalog reads information_schema and pg_indexes.
type PostgresCatalog struct {
	db postgres.Querier
}

func NewPostgresCatalog(db postgres.Querier) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// splitTable resolves "schema.table", defaulting to the public schema.
func splitTable(table string) (string, string) {
	if schemaName, tableName, ok := strings.Cut(table, "."); ok {
		return schemaName, tableName
	}
	return "public", table
}

func qualifiedName(schemaName, tableName string) string {
	if schemaName == "public" {
		return tableName
	}
	return schemaName + "." + tableName
}

func (catalog *PostgresCatalog) ListTables(context context.Context) ([]string, error) {
	sql, args, err := dialect.From(infoTables).
		Select(infoTables.Col("table_schema"), infoTables.Col("table_name")).
		Where(
			infoTables.Col("table_type").Eq("BASE TABLE"),
			infoTables.Col("table_schema").NotIn(systemSchemas),
		).
		Order(infoTables.Col("table_schema").Asc(), infoTables.Col("table_name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("build query: %w", err), "list_tables")
	}

	rows, err := catalog.db.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tables")
	}

	tables, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var schemaName, tableName string
		err := row.Scan(&schemaName, &tableName)
		return qualifiedName(schemaName, tableName), err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "list_tables")
	}
	return tables, nil
}

func (catalog *PostgresCatalog) TableExists(context context.Context, table string) (bool, error) {
	schemaName, tableName := splitTable(table)

	sql, args, err := dialect.From(infoTables).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			infoTables.Col("table_schema").Eq(schemaName),
			infoTables.Col("table_name").Eq(tableName),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, dberr.Wrap(fmt.Errorf("build query: %w", err), "table_exists")
	}

	var count int64
	if err := catalog.db.QueryRow(context, sql, args...).Scan(&count); err != nil {
		return false, dberr.Wrap(err, "table_exists")
	}
	return count > 0, nil
}

func (catalog *PostgresCatalog) ListFields(context context.Context, table string) ([]Field, error) {
	schemaName, tableName := splitTable(table)

	columnsSQL, columnsArgs, err := dialect.From(infoColumns).
		Select(infoColumns.Col("column_name"), infoColumns.Col("data_type")).
		Where(
			infoColumns.Col("table_schema").Eq(schemaName),
			infoColumns.Col("table_name").Eq(tableName),
		).
		Order(infoColumns.Col("ordinal_position").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("build query: %w", err), "list_fields")
	}

	indexesSQL, indexesArgs, err := dialect.From(pgIndexes).
		Select(pgIndexes.Col("indexname")).
		Where(
			pgIndexes.Col("schemaname").Eq(schemaName),
			pgIndexes.Col("tablename").Eq(tableName),
		).
		Order(pgIndexes.Col("indexname").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("build query: %w", err), "list_indexes")
	}

	fields, err := catalog.collectFields(context, columnsSQL, columnsArgs, "list_fields")
	if err != nil {
		return nil, err
	}

	rows, err := catalog.db.Query(context, indexesSQL, indexesArgs...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_indexes")
	}

	indexes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Field, error) {
		field := Field{Type: FieldTypeIndex}
		err := row.Scan(&field.Name)
		return field, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "list_indexes")
	}

	return append(fields, indexes...), nil
}

func (catalog *PostgresCatalog) collectFields(context context.Context, sql string, args []interface{}, action string) ([]Field, error) {
	rows, err := catalog.db.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	fields, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Field, error) {
		var field Field
		err := row.Scan(&field.Name, &field.Type)
		return field, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return fields, nil
}
