// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags

import "context"

/*
Repository reads and writes tag values and their item relations.

Every method receives the resolved [Source] of the calling attribute because
the tag table and its columns differ per attribute instance.
*/
type Repository interface {

	/*
		CountTags counts the relation rows of each item.

		Items without any relation are absent from the result.
	*/
	CountTags(context context.Context, source Source, itemIDs []int64) (map[int64]int, error)

	/*
		ListValueIDs returns the ids of selectable values in display order.

		Parameters:
		  - itemIDs: nil for no item restriction, otherwise the owning items
		  - usedOnly: restrict to values assigned through this attribute
	*/
	ListValueIDs(context context.Context, source Source, itemIDs []int64, usedOnly bool) ([]int64, error)

	// CountValueUsage counts the items assigned to each value.
	CountValueUsage(context context.Context, source Source, valueIDs []int64) (map[int64]int, error)

	// ListValues reads value rows in one language, in display order.
	ListValues(context context.Context, source Source, valueIDs []int64, language string) ([]Row, error)

	/*
		ListTranslated reads the values assigned to items in one language.

		Returns:
		  - map[int64]*ItemValues: item id to value rows in display order, without the item alias column
		  - error: Query failure
	*/
	ListTranslated(context context.Context, source Source, itemIDs []int64, language string) (map[int64]*ItemValues, error)

	// SearchItems returns ids of items holding a value that matches the LIKE pattern, ignoring case.
	SearchItems(context context.Context, source Source, pattern string, languages []string) ([]int64, error)

	/*
		ReplaceRelations rewrites the relations of every listed item.

		An item mapped to an empty list loses all of its values. Value order
		is stored as value_sorting.
	*/
	ReplaceRelations(context context.Context, source Source, relations map[int64][]int64) error
}
