package schema

import "github.com/doug-martin/goqu/v9"

// TagRelationTable is the shared junction of attribute, item and tag value.
var (
	TagRelationTable               = goqu.S("core").Table("tagrelation")
	TagRelationTableAttributeIDCol = TagRelationTable.Col("att_id")
	TagRelationTableItemIDCol      = TagRelationTable.Col("item_id")
	TagRelationTableValueIDCol     = TagRelationTable.Col("value_id")
)

// TagRelationRow is one stored relation.
type TagRelationRow struct {
	AttributeID  int64 `db:"att_id"`
	ItemID       int64 `db:"item_id"`
	ValueSorting int   `db:"value_sorting"`
	ValueID      int64 `db:"value_id"`
}
