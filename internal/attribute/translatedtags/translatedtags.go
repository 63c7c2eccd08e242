// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package translatedtags implements the "translated tags" attribute type.

An attribute instance references rows of an admin-configured tag table. Every
tag exists once per language (rows share the id column and differ in the
language column). Items are linked to tags through the shared relation table
core.tagrelation.

Reads resolve each tag in the active language first and backfill the missing
ones from the metamodel's fallback language without overwriting anything the
first pass found.
*/
package translatedtags

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/pkg/convert"
)

// TypeName is the registry name of the attribute type.
const TypeName = "translatedtags"

// Setting keys read by the attribute.
const (
	SettingTable            = "tag_table"
	SettingIDColumn         = "tag_id"
	SettingAliasColumn      = "tag_alias"
	SettingValueColumn      = "tag_column"
	SettingSortingColumn    = "tag_sorting"
	SettingWhere            = "tag_where"
	SettingLangColumn       = "tag_langcolumn"
	SettingSortSourceTable  = "tag_srctable"
	SettingSortSourceColumn = "tag_srcsorting"
)

// tagSettingNames are inherited from the plain tags attribute.
var tagSettingNames = []string{
	SettingTable, SettingValueColumn, SettingIDColumn, SettingAliasColumn,
	SettingSortingColumn, SettingWhere, "tag_filter", "tag_filterparams",
}

// translatedSettingNames are specific to translated tags.
var translatedSettingNames = []string{SettingLangColumn, SettingSortSourceTable, SettingSortSourceColumn}

// sortSourceAlias names the sort-source column in result rows.
const sortSourceAlias = "srcsorting"

// # Values

// Row is one tag value row. Its columns are defined by the administrator.
type Row map[string]any

/*
ItemValues holds the values of a single item keyed by value id.

Ids keep the order they were added in, which is the display order of the
query that produced them. JSON output is an object whose keys follow that
order.
*/
type ItemValues struct {
	ids  []int64
	rows map[int64]Row
}

// NewItemValues returns an empty value set.
func NewItemValues() *ItemValues {
	return &ItemValues{rows: make(map[int64]Row)}
}

// Set stores row under valueID. A new id is appended to the order.
func (values *ItemValues) Set(valueID int64, row Row) {
	if _, exists := values.rows[valueID]; !exists {
		values.ids = append(values.ids, valueID)
	}
	values.rows[valueID] = row
}

// Get returns the row stored under valueID.
func (values *ItemValues) Get(valueID int64) (Row, bool) {
	if values == nil {
		return nil, false
	}
	row, ok := values.rows[valueID]
	return row, ok
}

// Len returns the number of values.
func (values *ItemValues) Len() int {
	if values == nil {
		return 0
	}
	return len(values.ids)
}

// IDs returns the value ids in display order. It is never nil.
func (values *ItemValues) IDs() []int64 {
	if values == nil {
		return []int64{}
	}
	return append(make([]int64, 0, len(values.ids)), values.ids...)
}

// sortStable reorders the ids by their rows. Equal rows keep their order.
func (values *ItemValues) sortStable(compare func(a, b Row) int) {
	slices.SortStableFunc(values.ids, func(a, b int64) int {
		return compare(values.rows[a], values.rows[b])
	})
}

func (values *ItemValues) MarshalJSON() ([]byte, error) {
	if values == nil {
		return []byte("null"), nil
	}

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, valueID := range values.ids {
		if index > 0 {
			buffer.WriteByte(',')
		}
		buffer.WriteString(`"` + strconv.FormatInt(valueID, 10) + `":`)

		encoded, err := json.Marshal(values.rows[valueID])
		if err != nil {
			return nil, err
		}
		buffer.Write(encoded)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// FilterOption is one selectable tag of a filter widget.
type FilterOption struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
	Value string `json:"value"`
	Count int    `json:"count,omitempty"`
}

// MetaModel is what the attribute needs from its owning metamodel.
type MetaModel interface {
	ActiveLanguage() string
	GetFallbackLanguage() string
	GetTableName() string
	IsTranslated() bool
}

// # Tag Source

// Source is the resolved tag source configuration of one attribute instance.
type Source struct {
	AttributeID   int64  `json:"attribute_id"`
	Table         string `json:"table"`
	IDColumn      string `json:"id_column"`
	AliasColumn   string `json:"alias_column"`
	ValueColumn   string `json:"value_column"`
	SortingColumn string `json:"sorting_column"`
	LangColumn    string `json:"lang_column"`
	Where         string `json:"where,omitempty"`
	SortTable     string `json:"sort_table,omitempty"`
	SortColumn    string `json:"sort_column,omitempty"`

	// ItemAlias names the owning item id in translated rows ("<table>_id").
	ItemAlias string `json:"item_alias"`
}

// NewSource resolves settings and their defaults.
func NewSource(definition attribute.Definition, metaModelTable string) Source {
	settings := definition.Settings
	idColumn := settings.GetOr(SettingIDColumn, "id")

	source := Source{
		AttributeID:   definition.ID,
		Table:         settings.Get(SettingTable),
		IDColumn:      idColumn,
		AliasColumn:   settings.GetOr(SettingAliasColumn, idColumn),
		ValueColumn:   settings.Get(SettingValueColumn),
		SortingColumn: settings.GetOr(SettingSortingColumn, idColumn),
		LangColumn:    settings.Get(SettingLangColumn),
		Where:         strings.TrimSpace(settings.Get(SettingWhere)),
		SortTable:     settings.Get(SettingSortSourceTable),
		ItemAlias:     strings.ReplaceAll(metaModelTable, ".", "_") + "_id",
	}

	// The sort column is meaningless without its table.
	if source.SortTable != "" {
		source.SortColumn = settings.Get(SettingSortSourceColumn)
	}

	return source
}

// HasTable reports whether a source table and id column are configured.
func (source Source) HasTable() bool {
	return source.Table != "" && source.IDColumn != ""
}

// IsTranslated reports whether the source can be read per language.
func (source Source) IsTranslated() bool {
	return source.HasTable() && source.LangColumn != ""
}

/*
compareRows orders two rows the way the read queries do: by the sort source
column, then by the sorting column. Missing values sort last, as NULLs do in
an ascending PostgreSQL order.
*/
func (source Source) compareRows(a, b Row) int {
	if source.hasSortSource() {
		if order := compareScalars(a[sortSourceAlias], b[sortSourceAlias]); order != 0 {
			return order
		}
	}
	return compareScalars(a[source.SortingColumn], b[source.SortingColumn])
}

func compareScalars(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	left, leftOK := convert.ToInt64(a)
	right, rightOK := convert.ToInt64(b)
	if leftOK && rightOK {
		return cmp.Compare(left, right)
	}
	return strings.Compare(convert.ToString(a), convert.ToString(b))
}
