// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package translatedtags

import (
	"log/slog"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/metamodel"
	"github.com/taibuivan/translatedtags/internal/platform/apperr"
)

// Registry maps attribute type names to translated tags factories.
type Registry = attribute.Registry[*metamodel.MetaModel, *Attribute]

// NewTypeRegistry returns a registry holding the translated tags type.
func NewTypeRegistry(repository Repository, logger *slog.Logger) (*Registry, error) {
	types := attribute.NewRegistry[*metamodel.MetaModel, *Attribute]()
	if err := types.Register(TypeName, NewFactory(repository, logger)); err != nil {
		return nil, err
	}
	return types, nil
}

// Resolver builds request scoped attribute instances.
type Resolver struct {
	models *metamodel.Registry
	types  *Registry
}

// NewResolver combines the metamodel definitions with the attribute types.
func NewResolver(models *metamodel.Registry, types *Registry) *Resolver {
	return &Resolver{models: models, types: types}
}

/*
Resolve returns the named attribute of the named metamodel with its active
language negotiated from preference (a language code or an Accept-Language
value). An empty preference selects the fallback language.
*/
func (resolver *Resolver) Resolve(modelName, attributeName, preference string) (*Attribute, error) {
	model, err := resolver.models.Get(modelName)
	if err != nil {
		return nil, err
	}

	definition, ok := model.Attribute(attributeName)
	if !ok {
		return nil, apperr.NotFound("Attribute")
	}

	scoped := model.WithActiveLanguage(model.MatchLanguage(preference))
	tags, err := resolver.types.Create(definition, scoped)
	if err != nil {
		return nil, apperr.ValidationError(err.Error())
	}
	return tags, nil
}

// Models exposes the metamodel definitions.
func (resolver *Resolver) Models() *metamodel.Registry {
	return resolver.models
}
