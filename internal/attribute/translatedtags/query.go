// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	// Registers the "postgres" dialect ($n placeholders, double quoted identifiers).
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/taibuivan/translatedtags/internal/platform/database/schema"
)

/*
Query builders for the tag source.

Table and column names come from attribute settings, so they are always
rendered as quoted identifiers. The optional tag_where fragment is trusted
administrator input and is embedded verbatim in parentheses. Every value is
bound as a $n placeholder.
*/

var dialect = goqu.Dialect("postgres")

// Result column aliases shared by the builders and the store.
const (
	aliasValueID = "value_id"
	aliasItemID  = "item_id"
	aliasCount   = "count"
)

// tableIdent splits an optional schema prefix so that Col and All render
// fully qualified names.
func tableIdent(name string) exp.IdentifierExpression {
	if schemaName, tableName, ok := strings.Cut(name, "."); ok {
		return goqu.S(schemaName).Table(tableName)
	}
	return goqu.T(name)
}

func (source Source) table() exp.IdentifierExpression {
	return tableIdent(source.Table)
}

func (source Source) col(name string) exp.IdentifierExpression {
	return source.table().Col(name)
}

func (source Source) sortTable() exp.IdentifierExpression {
	return tableIdent(source.SortTable)
}

func (source Source) hasSortSource() bool {
	return source.SortTable != "" && source.SortColumn != ""
}

// withSortJoin joins the sort source table on its id column.
func (source Source) withSortJoin(dataset *goqu.SelectDataset) *goqu.SelectDataset {
	if source.SortTable == "" {
		return dataset
	}
	return dataset.Join(source.sortTable(), goqu.On(source.col(source.IDColumn).Eq(source.sortTable().Col("id"))))
}

// withWhere appends the administrator supplied filter fragment.
func (source Source) withWhere(dataset *goqu.SelectDataset) *goqu.SelectDataset {
	if source.Where == "" {
		return dataset
	}
	return dataset.Where(goqu.L("(" + source.Where + ")"))
}

// groupedOrder orders grouped value ids. Aggregating the sorting column keeps
// the statement valid when the id is not unique across languages.
func (source Source) groupedOrder(dataset *goqu.SelectDataset, groupBy exp.IdentifierExpression) *goqu.SelectDataset {
	groups := []interface{}{groupBy}
	orders := make([]exp.OrderedExpression, 0, 2)

	if source.hasSortSource() {
		sortColumn := source.sortTable().Col(source.SortColumn)
		groups = append(groups, sortColumn)
		orders = append(orders, sortColumn.Asc())
	}
	orders = append(orders, goqu.MIN(source.col(source.SortingColumn)).Asc())

	return dataset.GroupBy(groups...).Order(orders...)
}

// rowOrder orders plain value rows and exposes the sort source column.
func (source Source) rowOrder(dataset *goqu.SelectDataset) *goqu.SelectDataset {
	orders := make([]exp.OrderedExpression, 0, 2)

	if source.hasSortSource() {
		sortColumn := source.sortTable().Col(source.SortColumn)
		dataset = dataset.SelectAppend(sortColumn.As(sortSourceAlias))
		orders = append(orders, sortColumn.Asc())
	}
	orders = append(orders, source.col(source.SortingColumn).Asc())

	return dataset.Order(orders...)
}

// # Builders

// tagCountQuery counts relation rows per item.
func tagCountQuery(source Source, itemIDs []int64) (string, []interface{}, error) {
	return dialect.From(schema.TagRelationTable).
		Select(
			schema.TagRelationTableItemIDCol.As(aliasItemID),
			goqu.COUNT(goqu.Star()).As(aliasCount),
		).
		Where(
			schema.TagRelationTableAttributeIDCol.Eq(source.AttributeID),
			schema.TagRelationTableItemIDCol.In(itemIDs),
		).
		GroupBy(schema.TagRelationTableItemIDCol).
		Prepared(true).
		ToSQL()
}

/*
valueIDsQuery lists the ids of selectable tag values.

  - itemIDs != nil: values assigned to those items.
  - usedOnly: values assigned to any item through this attribute.
  - otherwise: every value of the source table.
*/
func valueIDsQuery(source Source, itemIDs []int64, usedOnly bool) (string, []interface{}, error) {
	valueID := source.col(source.IDColumn)
	var dataset *goqu.SelectDataset

	switch {
	case itemIDs != nil:
		dataset = dialect.From(source.table()).
			Select(valueID.As(aliasValueID)).
			Join(schema.TagRelationTable, goqu.On(
				schema.TagRelationTableAttributeIDCol.Eq(source.AttributeID),
				schema.TagRelationTableValueIDCol.Eq(valueID),
			))
		dataset = source.withSortJoin(dataset).
			Where(schema.TagRelationTableItemIDCol.In(itemIDs))
		dataset = source.groupedOrder(source.withWhere(dataset), valueID)

	case usedOnly:
		dataset = dialect.From(schema.TagRelationTable).
			Select(schema.TagRelationTableValueIDCol.As(aliasValueID)).
			Join(source.table(), goqu.On(schema.TagRelationTableValueIDCol.Eq(valueID)))
		dataset = source.withSortJoin(dataset).
			Where(schema.TagRelationTableAttributeIDCol.Eq(source.AttributeID))
		dataset = source.groupedOrder(source.withWhere(dataset), schema.TagRelationTableValueIDCol)

	default:
		dataset = dialect.From(source.table()).Select(valueID.As(aliasValueID))
		dataset = source.withSortJoin(dataset)
		dataset = source.groupedOrder(source.withWhere(dataset), valueID)
	}

	return dataset.Prepared(true).ToSQL()
}

// valueUsageQuery counts the items using each value through this attribute.
func valueUsageQuery(source Source, valueIDs []int64) (string, []interface{}, error) {
	return dialect.From(schema.TagRelationTable).
		Select(
			schema.TagRelationTableValueIDCol.As(aliasValueID),
			goqu.COUNT(goqu.Star()).As(aliasCount),
		).
		Where(
			schema.TagRelationTableAttributeIDCol.Eq(source.AttributeID),
			schema.TagRelationTableValueIDCol.In(valueIDs),
		).
		GroupBy(schema.TagRelationTableValueIDCol).
		Prepared(true).
		ToSQL()
}

// valuesQuery reads the rows of the given values in one language.
func valuesQuery(source Source, valueIDs []int64, language string) (string, []interface{}, error) {
	dataset := dialect.From(source.table()).Select(source.table().All())
	dataset = source.withSortJoin(dataset).
		Where(
			source.col(source.IDColumn).In(valueIDs),
			source.col(source.LangColumn).Eq(language),
		)
	dataset = source.rowOrder(source.withWhere(dataset))

	return dataset.Prepared(true).ToSQL()
}

// translatedDataQuery reads the values assigned to items in one language.
// Every row carries the owning item id under the ItemAlias column.
func translatedDataQuery(source Source, itemIDs []int64, language string) (string, []interface{}, error) {
	valueID := source.col(source.IDColumn)

	dataset := dialect.From(source.table()).
		Select(source.table().All(), schema.TagRelationTableItemIDCol.As(source.ItemAlias)).
		Join(schema.TagRelationTable, goqu.On(
			schema.TagRelationTableAttributeIDCol.Eq(source.AttributeID),
			schema.TagRelationTableValueIDCol.Eq(valueID),
			source.col(source.LangColumn).Eq(language),
		))
	dataset = source.withSortJoin(dataset).
		Where(schema.TagRelationTableItemIDCol.In(itemIDs))
	dataset = source.rowOrder(source.withWhere(dataset))

	return dataset.Prepared(true).ToSQL()
}

// searchQuery finds items with a value whose text or alias matches pattern,
// ignoring case. An empty languages list searches every language.
func searchQuery(source Source, pattern string, languages []string) (string, []interface{}, error) {
	conditions := []exp.Expression{
		goqu.Or(
			source.col(source.ValueColumn).ILike(pattern),
			source.col(source.AliasColumn).ILike(pattern),
		),
	}
	if len(languages) > 0 && source.LangColumn != "" {
		conditions = append(conditions, source.col(source.LangColumn).In(languages))
	}

	matching := dialect.From(source.table()).
		Select(source.col(source.IDColumn)).
		Where(conditions...)

	return dialect.From(schema.TagRelationTable).
		Select(schema.TagRelationTableItemIDCol).
		Distinct().
		Where(
			schema.TagRelationTableAttributeIDCol.Eq(source.AttributeID),
			schema.TagRelationTableValueIDCol.In(matching),
		).
		Order(schema.TagRelationTableItemIDCol.Asc()).
		Prepared(true).
		ToSQL()
}

// clearRelationsQuery removes every relation of the given items.
func clearRelationsQuery(source Source, itemIDs []int64) (string, []interface{}, error) {
	return dialect.Delete(schema.TagRelationTable).
		Where(
			schema.TagRelationTableAttributeIDCol.Eq(source.AttributeID),
			schema.TagRelationTableItemIDCol.In(itemIDs),
		).
		Prepared(true).
		ToSQL()
}

// insertRelationQuery stores one relation row.
func insertRelationQuery(row schema.TagRelationRow) (string, []interface{}, error) {
	return dialect.Insert(schema.TagRelationTable).
		Rows(row).
		Prepared(true).
		ToSQL()
}
