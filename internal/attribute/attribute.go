// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package attribute defines the contract every attribute type of a metamodel
fulfils, the admin-set configuration it reads, and the registry that maps a
type name to its constructor.
*/
package attribute

import (
	"context"
	"strconv"
)

// # Configuration

// Settings holds the admin-set configuration of one attribute instance.
type Settings map[string]string

// Get returns the value stored under key or an empty string.
func (settings Settings) Get(key string) string {
	if settings == nil {
		return ""
	}
	return settings[key]
}

// GetOr returns the value stored under key, or fallback when it is empty.
func (settings Settings) GetOr(key, fallback string) string {
	if value := settings.Get(key); value != "" {
		return value
	}
	return fallback
}

// Definition describes one attribute instance of a metamodel.
type Definition struct {
	ID       int64    `yaml:"id"       json:"id"`
	Name     string   `yaml:"name"     json:"name"`
	Type     string   `yaml:"type"     json:"type"`
	Settings Settings `yaml:"settings" json:"settings"`
}

// Get exposes the settings plus the instance id under "id".
func (definition Definition) Get(key string) string {
	if key == "id" {
		return strconv.FormatInt(definition.ID, 10)
	}
	return definition.Settings.Get(key)
}

// BaseSettingNames are understood by every attribute type.
var BaseSettingNames = []string{
	"id", "pid", "sorting", "tstamp", "name", "description", "type", "colname",
	"isvariant", "isunique", "filterable", "searchable",
}

// # Contracts

// Attribute is the contract every attribute type implements.
type Attribute interface {
	Definition() Definition
	SettingNames() []string
}

// Complex attributes store their values outside the metamodel table.
type Complex[V any] interface {
	Attribute

	// DataFor returns the values of the given items keyed by item id.
	DataFor(ctx context.Context, itemIDs []int64) (map[int64]V, error)

	// SetDataFor persists the values keyed by item id.
	SetDataFor(ctx context.Context, values map[int64]V) error

	// SearchFor returns the ids of items matching pattern. '*' and '?' are wildcards.
	SearchFor(ctx context.Context, pattern string) ([]int64, error)
}

// Translated attributes hold one value per item and language.
type Translated[V any] interface {
	Complex[V]

	TranslatedDataFor(ctx context.Context, itemIDs []int64, language string) (map[int64]V, error)
	SetTranslatedDataFor(ctx context.Context, values map[int64]V, language string) error
	UnsetValueFor(ctx context.Context, itemIDs []int64, language string) error
	SearchForInLanguages(ctx context.Context, pattern string, languages []string) ([]int64, error)
}
