// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/translatedtags/internal/platform/database/schema"
	"github.com/taibuivan/translatedtags/internal/platform/dberr"
	"github.com/taibuivan/translatedtags/internal/platform/postgres"
	"github.com/taibuivan/translatedtags/pkg/convert"
)

// PostgresRepository implements [Repository] on a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository on the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// buildError converts a builder failure into the store's error shape.
func buildError(err error, action string) error {
	return dberr.Wrap(fmt.Errorf("build query: %w", err), action)
}

// queryCounts runs a two column (id, count) statement.
func queryCounts(context context.Context, querier postgres.Querier, sql string, args []interface{}, action string) (map[int64]int, error) {
	rows, err := querier.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id, count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, dberr.Wrap(err, action)
		}
		counts[id] = int(count)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return counts, nil
}

// queryRows collects every row of a statement as column maps.
func queryRows(context context.Context, querier postgres.Querier, sql string, args []interface{}, action string) ([]Row, error) {
	rows, err := querier.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	collected, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Row, error) {
		values, err := pgx.RowToMap(row)
		return Row(values), err
	})
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return collected, nil
}

// queryIDs collects a single integer column.
func queryIDs(context context.Context, querier postgres.Querier, sql string, args []interface{}, action string) ([]int64, error) {
	rows, err := querier.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return ids, nil
}

func (repository *PostgresRepository) CountTags(context context.Context, source Source, itemIDs []int64) (map[int64]int, error) {
	sql, args, err := tagCountQuery(source, itemIDs)
	if err != nil {
		return nil, buildError(err, "count_tags")
	}
	return queryCounts(context, repository.pool, sql, args, "count_tags")
}

func (repository *PostgresRepository) ListValueIDs(context context.Context, source Source, itemIDs []int64, usedOnly bool) ([]int64, error) {
	sql, args, err := valueIDsQuery(source, itemIDs, usedOnly)
	if err != nil {
		return nil, buildError(err, "list_value_ids")
	}
	return queryIDs(context, repository.pool, sql, args, "list_value_ids")
}

func (repository *PostgresRepository) CountValueUsage(context context.Context, source Source, valueIDs []int64) (map[int64]int, error) {
	sql, args, err := valueUsageQuery(source, valueIDs)
	if err != nil {
		return nil, buildError(err, "count_value_usage")
	}
	return queryCounts(context, repository.pool, sql, args, "count_value_usage")
}

func (repository *PostgresRepository) ListValues(context context.Context, source Source, valueIDs []int64, language string) ([]Row, error) {
	sql, args, err := valuesQuery(source, valueIDs, language)
	if err != nil {
		return nil, buildError(err, "list_values")
	}
	return queryRows(context, repository.pool, sql, args, "list_values")
}

func (repository *PostgresRepository) ListTranslated(context context.Context, source Source, itemIDs []int64, language string) (map[int64]*ItemValues, error) {
	sql, args, err := translatedDataQuery(source, itemIDs, language)
	if err != nil {
		return nil, buildError(err, "list_translated")
	}

	rows, err := queryRows(context, repository.pool, sql, args, "list_translated")
	if err != nil {
		return nil, err
	}

	return groupByItem(source, rows), nil
}

// groupByItem nests rows per item in query order and drops the item alias.
func groupByItem(source Source, rows []Row) map[int64]*ItemValues {
	result := make(map[int64]*ItemValues)

	for _, row := range rows {
		itemID, ok := convert.ToInt64(row[source.ItemAlias])
		if !ok {
			continue
		}
		valueID, ok := convert.ToInt64(row[source.IDColumn])
		if !ok {
			continue
		}
		delete(row, source.ItemAlias)

		if result[itemID] == nil {
			result[itemID] = NewItemValues()
		}
		result[itemID].Set(valueID, row)
	}

	return result
}

func (repository *PostgresRepository) SearchItems(context context.Context, source Source, pattern string, languages []string) ([]int64, error) {
	sql, args, err := searchQuery(source, pattern, languages)
	if err != nil {
		return nil, buildError(err, "search_items")
	}
	return queryIDs(context, repository.pool, sql, args, "search_items")
}

/*
ReplaceRelations clears and re-inserts relations inside one transaction.

The inserts are queued on a [pgx.Batch] so the whole rewrite costs two round
trips regardless of the number of values.
*/
func (repository *PostgresRepository) ReplaceRelations(context context.Context, source Source, relations map[int64][]int64) error {
	if len(relations) == 0 {
		return nil
	}

	itemIDs := slices.Sorted(maps.Keys(relations))

	clearSQL, clearArgs, err := clearRelationsQuery(source, itemIDs)
	if err != nil {
		return buildError(err, "clear_relations")
	}

	batch := &pgx.Batch{}
	for _, itemID := range itemIDs {
		for sorting, valueID := range relations[itemID] {
			insertSQL, insertArgs, err := insertRelationQuery(schema.TagRelationRow{
				AttributeID:  source.AttributeID,
				ItemID:       itemID,
				ValueSorting: sorting,
				ValueID:      valueID,
			})
			if err != nil {
				return buildError(err, "insert_relations")
			}
			batch.Queue(insertSQL, insertArgs...)
		}
	}

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "replace_relations_begin")
	}
	defer transaction.Rollback(context)

	if _, err := transaction.Exec(context, clearSQL, clearArgs...); err != nil {
		return dberr.Wrap(err, "clear_relations")
	}

	if batch.Len() > 0 {
		if err := transaction.SendBatch(context, batch).Close(); err != nil {
			return dberr.Wrap(err, "insert_relations")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "replace_relations_commit")
	}
	return nil
}
