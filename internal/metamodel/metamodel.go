// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metamodel describes the custom content types that own attributes.

A metamodel knows its storage table, the languages its content is maintained
in and the fallback language used when a translation is missing. The active
language is request scoped: handlers derive a copy with [MetaModel.WithActiveLanguage].
*/
package metamodel

import (
	"golang.org/x/text/language"

	"github.com/taibuivan/translatedtags/internal/attribute"
)

// MetaModel is one custom content type.
type MetaModel struct {
	Name             string                 `yaml:"name"              json:"name"`
	TableName        string                 `yaml:"table"             json:"table"`
	FallbackLanguage string                 `yaml:"fallback_language" json:"fallback_language"`
	Languages        []string               `yaml:"languages"         json:"languages"`
	Attributes       []attribute.Definition `yaml:"attributes"        json:"-"`

	activeLanguage string
}

// ActiveLanguage returns the language of the current request, or the fallback
// language when none was chosen.
func (model *MetaModel) ActiveLanguage() string {
	if model.activeLanguage == "" {
		return model.FallbackLanguage
	}
	return model.activeLanguage
}

// GetFallbackLanguage returns the language used when a translation is missing.
func (model *MetaModel) GetFallbackLanguage() string {
	return model.FallbackLanguage
}

// GetTableName returns the storage table of the metamodel.
func (model *MetaModel) GetTableName() string {
	return model.TableName
}

// WithActiveLanguage returns a shallow copy bound to lang.
func (model *MetaModel) WithActiveLanguage(lang string) *MetaModel {
	clone := *model
	clone.activeLanguage = lang
	return &clone
}

// IsTranslated reports whether content exists in more than one language.
// The fallback language counts even when Languages omits it.
func (model *MetaModel) IsTranslated() bool {
	return len(model.supportedCodes()) > 1
}

// Attribute looks up an attribute definition by name.
func (model *MetaModel) Attribute(name string) (attribute.Definition, bool) {
	for _, definition := range model.Attributes {
		if definition.Name == name {
			return definition, true
		}
	}
	return attribute.Definition{}, false
}

// MatchLanguage resolves an Accept-Language style preference against the
// metamodel languages. Unparseable or unmatched preferences yield the
// fallback language.
func (model *MetaModel) MatchLanguage(preference string) string {
	if preference == "" {
		return model.FallbackLanguage
	}

	requested, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(requested) == 0 {
		return model.FallbackLanguage
	}

	// The matcher treats its first entry as the default.
	codes := model.supportedCodes()
	supported := make([]language.Tag, len(codes))
	for i, code := range codes {
		supported[i] = language.Make(code)
	}

	_, index, confidence := language.NewMatcher(supported).Match(requested...)
	if confidence == language.No {
		return model.FallbackLanguage
	}
	return codes[index]
}

func (model *MetaModel) supportedCodes() []string {
	codes := []string{model.FallbackLanguage}
	for _, code := range model.Languages {
		if code != model.FallbackLanguage {
			codes = append(codes, code)
		}
	}
	return codes
}
