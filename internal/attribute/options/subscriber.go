// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package options

import (
	"context"
	"log/slog"

	"github.com/taibuivan/translatedtags/internal/attribute/translatedtags"
	"github.com/taibuivan/translatedtags/internal/platform/constants"
	"github.com/taibuivan/translatedtags/pkg/slice"
)

// Subscriber answers the option requests of the translated tags settings.
type Subscriber struct {
	catalog Catalog
	logger  *slog.Logger
}

func NewSubscriber(catalog Catalog, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{catalog: catalog, logger: logger}
}

// RegisterEvents subscribes every listener of the subscriber.
func (subscriber *Subscriber) RegisterEvents(dispatcher *Dispatcher) {
	dispatcher.
		AddListener(EventGetPropertyOptions, subscriber.GetLangColumnNames).
		AddListener(EventGetPropertyOptions, subscriber.HandleSrcTableNames).
		AddListener(EventGetPropertyOptions, subscriber.GetSourceColumnNames)
}

// applies reports whether event targets property of the attribute form.
func applies(event *GetPropertyOptionsEvent, property string) bool {
	return event.DataDefinition == constants.AttributeDataDefinition && event.PropertyName == property
}

// GetLangColumnNames offers the columns of the configured tag table.
func (subscriber *Subscriber) GetLangColumnNames(ctx context.Context, event *GetPropertyOptionsEvent) error {
	if !applies(event, translatedtags.SettingLangColumn) {
		return nil
	}
	return subscriber.columnNames(ctx, event, event.Model.Get(translatedtags.SettingTable))
}

// HandleSrcTableNames offers every table of the database.
func (subscriber *Subscriber) HandleSrcTableNames(ctx context.Context, event *GetPropertyOptionsEvent) error {
	if !applies(event, translatedtags.SettingSortSourceTable) {
		return nil
	}

	tables, err := subscriber.catalog.ListTables(ctx)
	if err != nil {
		return err
	}
	event.SetOptions(tables)
	return nil
}

// GetSourceColumnNames offers the columns of the configured sort source table.
func (subscriber *Subscriber) GetSourceColumnNames(ctx context.Context, event *GetPropertyOptionsEvent) error {
	if !applies(event, translatedtags.SettingSortSourceColumn) {
		return nil
	}
	return subscriber.columnNames(ctx, event, event.Model.Get(translatedtags.SettingSortSourceTable))
}

// columnNames answers with the non-index fields of table. A missing or
// unknown table leaves the event unanswered.
func (subscriber *Subscriber) columnNames(ctx context.Context, event *GetPropertyOptionsEvent, table string) error {
	if table == "" {
		return nil
	}

	exists, err := subscriber.catalog.TableExists(ctx, table)
	if err != nil || !exists {
		return err
	}

	fields, err := subscriber.catalog.ListFields(ctx, table)
	if err != nil {
		return err
	}

	columns := slice.Filter(fields, func(field Field) bool { return field.Type != FieldTypeIndex })
	names := slice.Map(columns, func(field Field) string { return field.Name })

	subscriber.logger.DebugContext(ctx, "property_options_resolved",
		slog.String("property", event.PropertyName),
		slog.String("table", table),
		slog.Int("options", len(names)),
	)
	event.SetOptions(names)
	return nil
}
