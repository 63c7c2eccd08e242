// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package options

import "context"

// FieldTypeIndex marks catalog entries that describe an index, not a column.
const FieldTypeIndex = "index"

// Field is one column or index of a table.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

/*
Catalog describes the tables of the connected database.

Table names are "schema.table" for schemas other than public and the bare
table name for public.
*/
type Catalog interface {
	// ListTables returns every user table in lexical order.
	ListTables(ctx context.Context) ([]string, error)

	// TableExists reports whether table is a user table.
	TableExists(ctx context.Context, table string) (bool, error)

	// ListFields returns the columns of table in ordinal order, followed by its indexes.
	ListFields(ctx context.Context, table string) ([]Field, error)
}
