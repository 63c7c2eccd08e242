// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/metamodel"
	"github.com/taibuivan/translatedtags/internal/platform/apperr"
	"github.com/taibuivan/translatedtags/pkg/convert"
)

// Attribute is one translated tags attribute bound to a metamodel.
type Attribute struct {
	definition attribute.Definition
	model      MetaModel
	source     Source
	repository Repository
	logger     *slog.Logger
}

var _ attribute.Translated[*ItemValues] = (*Attribute)(nil)

// New binds a definition to its metamodel.
func New(definition attribute.Definition, model MetaModel, repository Repository, logger *slog.Logger) *Attribute {
	if logger == nil {
		logger = slog.Default()
	}

	return &Attribute{
		definition: definition,
		model:      model,
		source:     NewSource(definition, model.GetTableName()),
		repository: repository,
		logger:     logger.With(slog.String("attribute", definition.Name)),
	}
}

// NewFactory returns the registry factory of the translated tags type.
func NewFactory(repository Repository, logger *slog.Logger) attribute.Factory[*metamodel.MetaModel, *Attribute] {
	return func(definition attribute.Definition, model *metamodel.MetaModel) (*Attribute, error) {
		return New(definition, model, repository, logger), nil
	}
}

func (tags *Attribute) Definition() attribute.Definition {
	return tags.definition
}

// Source exposes the resolved tag source.
func (tags *Attribute) Source() Source {
	return tags.source
}

// SettingNames lists every setting the attribute understands.
func (tags *Attribute) SettingNames() []string {
	names := slices.Clone(attribute.BaseSettingNames)
	names = append(names, tagSettingNames...)
	return append(names, translatedSettingNames...)
}

// # Reading

/*
TagCount returns the number of related values per item.

Items without relations are absent from the result. Values are counted
regardless of language.
*/
func (tags *Attribute) TagCount(context context.Context, itemIDs []int64) (map[int64]int, error) {
	if !tags.source.HasTable() || len(itemIDs) == 0 {
		return map[int64]int{}, nil
	}
	return tags.repository.CountTags(context, tags.source, itemIDs)
}

/*
ValueIDs returns the ids of selectable values.

A nil itemIDs slice means "no item restriction". An empty non-nil slice
selects nothing and never reaches the database.
*/
func (tags *Attribute) ValueIDs(context context.Context, itemIDs []int64, usedOnly bool) ([]int64, error) {
	if !tags.source.HasTable() || (itemIDs != nil && len(itemIDs) == 0) {
		return []int64{}, nil
	}
	return tags.repository.ListValueIDs(context, tags.source, itemIDs, usedOnly)
}

// Values reads value rows in the given language.
func (tags *Attribute) Values(context context.Context, valueIDs []int64, language string) ([]Row, error) {
	if !tags.source.IsTranslated() || len(valueIDs) == 0 {
		return []Row{}, nil
	}
	return tags.repository.ListValues(context, tags.source, valueIDs, language)
}

// TranslatedDataFor returns the value rows of each item in one language, in display order.
func (tags *Attribute) TranslatedDataFor(context context.Context, itemIDs []int64, language string) (map[int64]*ItemValues, error) {
	if !tags.source.IsTranslated() || len(itemIDs) == 0 {
		return map[int64]*ItemValues{}, nil
	}
	return tags.repository.ListTranslated(context, tags.source, itemIDs, language)
}

/*
DataFor resolves the values of items in the active language and completes
them from the fallback language.

An item is completed when fewer of its related values were found in the active
language than it has relations. Completion only adds values the active
language lacks and never replaces an existing entry. Completed items are
re-sorted into display order. There is no second pass when the active
language is the fallback language or the metamodel has a single language.
*/
func (tags *Attribute) DataFor(context context.Context, itemIDs []int64) (map[int64]*ItemValues, error) {
	activeLanguage := tags.model.ActiveLanguage()
	fallbackLanguage := tags.model.GetFallbackLanguage()

	result, err := tags.TranslatedDataFor(context, itemIDs, activeLanguage)
	if err != nil {
		return nil, err
	}

	counts, err := tags.TagCount(context, itemIDs)
	if err != nil {
		return nil, err
	}

	incomplete := make([]int64, 0)
	for _, itemID := range slices.Sorted(maps.Keys(counts)) {
		if result[itemID].Len() != counts[itemID] {
			incomplete = append(incomplete, itemID)
		}
	}

	if len(incomplete) == 0 || !tags.hasFallback() {
		return result, nil
	}

	tags.logger.DebugContext(context, "translatedtags_fallback_fetch",
		slog.String("language", fallbackLanguage),
		slog.Int("items", len(incomplete)),
	)

	fallback, err := tags.TranslatedDataFor(context, incomplete, fallbackLanguage)
	if err != nil {
		return nil, err
	}

	for itemID, values := range fallback {
		merged := result[itemID]
		if merged == nil {
			merged = NewItemValues()
			result[itemID] = merged
		}
		for _, valueID := range values.IDs() {
			if _, exists := merged.Get(valueID); !exists {
				row, _ := values.Get(valueID)
				merged.Set(valueID, row)
			}
		}
		merged.sortStable(tags.source.compareRows)
	}

	return result, nil
}

// hasFallback reports whether values missing in the active language can be
// read in another one.
func (tags *Attribute) hasFallback() bool {
	return tags.model.IsTranslated() && tags.model.ActiveLanguage() != tags.model.GetFallbackLanguage()
}

/*
FilterOptions builds the options of a filter widget.

Values are read in the active language. Ids the active language lacks are
read again in the fallback language. Options are keyed by alias, so a later
row with the same alias replaces the value text of an earlier one.
*/
func (tags *Attribute) FilterOptions(context context.Context, itemIDs []int64, usedOnly, withCount bool) ([]FilterOption, error) {
	if !tags.source.IsTranslated() {
		return []FilterOption{}, nil
	}

	valueIDs, err := tags.ValueIDs(context, itemIDs, usedOnly)
	if err != nil {
		return nil, err
	}
	if len(valueIDs) == 0 {
		return []FilterOption{}, nil
	}

	activeLanguage := tags.model.ActiveLanguage()
	fallbackLanguage := tags.model.GetFallbackLanguage()

	rows, err := tags.Values(context, valueIDs, activeLanguage)
	if err != nil {
		return nil, err
	}

	options := make([]FilterOption, 0, len(valueIDs))
	byAlias := make(map[string]int)
	found := make(map[int64]bool)
	add := func(row Row) {
		id, ok := convert.ToInt64(row[tags.source.IDColumn])
		if !ok {
			return
		}
		found[id] = true

		option := FilterOption{
			ID:    id,
			Alias: convert.ToString(row[tags.source.AliasColumn]),
			Value: convert.ToString(row[tags.source.ValueColumn]),
		}
		if index, exists := byAlias[option.Alias]; exists {
			options[index].Value = option.Value
			return
		}
		byAlias[option.Alias] = len(options)
		options = append(options, option)
	}

	for _, row := range rows {
		add(row)
	}

	missing := make([]int64, 0)
	for _, id := range valueIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 && tags.hasFallback() {
		rows, err := tags.Values(context, missing, fallbackLanguage)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			add(row)
		}
	}

	if withCount && len(options) > 0 {
		counts, err := tags.repository.CountValueUsage(context, tags.source, valueIDs)
		if err != nil {
			return nil, err
		}
		for index := range options {
			options[index].Count = counts[options[index].ID]
		}
	}

	return options, nil
}

// # Searching

var wildcards = strings.NewReplacer("*", "%", "?", "_")

// SearchFor finds items with a value matching pattern in the active language.
func (tags *Attribute) SearchFor(context context.Context, pattern string) ([]int64, error) {
	return tags.SearchForInLanguages(context, pattern, []string{tags.model.ActiveLanguage()})
}

/*
SearchForInLanguages finds items whose value text or alias matches pattern.

"*" matches any run of characters and "?" a single character. An empty
languages list searches every language.
*/
func (tags *Attribute) SearchForInLanguages(context context.Context, pattern string, languages []string) ([]int64, error) {
	if !tags.source.HasTable() {
		return []int64{}, nil
	}
	return tags.repository.SearchItems(context, tags.source, wildcards.Replace(pattern), languages)
}

// # Writing

/*
SetDataFor replaces the values of every listed item.

Each item keeps exactly the value ids of its map, stored in ascending id
order. An empty map removes every value of the item.
*/
func (tags *Attribute) SetDataFor(context context.Context, values map[int64]*ItemValues) error {
	if !tags.source.HasTable() || len(values) == 0 {
		return nil
	}

	relations := make(map[int64][]int64, len(values))
	for itemID, itemValues := range values {
		valueIDs := itemValues.IDs()
		slices.Sort(valueIDs)
		relations[itemID] = valueIDs
	}

	tags.logger.DebugContext(context, "translatedtags_replace_relations", slog.Int("items", len(relations)))
	return tags.repository.ReplaceRelations(context, tags.source, relations)
}

// SetTranslatedDataFor stores relations, which are language independent.
func (tags *Attribute) SetTranslatedDataFor(context context.Context, values map[int64]*ItemValues, _ string) error {
	return tags.SetDataFor(context, values)
}

// UnsetValueFor is not supported: removing a single language of a relation has no meaning.
func (tags *Attribute) UnsetValueFor(_ context.Context, _ []int64, _ string) error {
	return apperr.NotImplemented("TranslatedTags.UnsetValueFor")
}
