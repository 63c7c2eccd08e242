// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metamodel

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/translatedtags/internal/platform/apperr"
	"github.com/taibuivan/translatedtags/internal/platform/validate"
)

// Registry holds the metamodels loaded from a definition file. It is read-only
// after loading.
type Registry struct {
	models map[string]*MetaModel
}

type document struct {
	MetaModels []*MetaModel `yaml:"metamodels"`
}

// LoadRegistry reads and validates the YAML definition file at path.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metamodel: read %s: %w", path, err)
	}
	return ParseRegistry(data)
}

// ParseRegistry decodes and validates a YAML definition document.
func ParseRegistry(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("metamodel: parse definitions: %w", err)
	}

	registry := &Registry{models: make(map[string]*MetaModel, len(doc.MetaModels))}
	for i, model := range doc.MetaModels {
		if err := validateModel(i, model); err != nil {
			return nil, err
		}
		if _, exists := registry.models[model.Name]; exists {
			return nil, apperr.ValidationError(fmt.Sprintf("Duplicate metamodel %q", model.Name))
		}
		if len(model.Languages) == 0 {
			model.Languages = []string{model.FallbackLanguage}
		}
		registry.models[model.Name] = model
	}

	return registry, nil
}

// Get returns the metamodel called name.
func (registry *Registry) Get(name string) (*MetaModel, error) {
	model, ok := registry.models[name]
	if !ok {
		return nil, apperr.NotFound("Metamodel")
	}
	return model, nil
}

// Names lists the loaded metamodel names in lexical order.
func (registry *Registry) Names() []string {
	names := make([]string, 0, len(registry.models))
	for name := range registry.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateModel(index int, model *MetaModel) error {
	prefix := fmt.Sprintf("metamodels[%d].", index)
	v := &validate.Validator{}

	v.Required(prefix+"name", model.Name).
		Identifier(prefix+"table", model.TableName).
		LanguageCode(prefix+"fallback_language", model.FallbackLanguage)

	for i, code := range model.Languages {
		v.LanguageCode(fmt.Sprintf("%slanguages[%d]", prefix, i), code)
	}

	seen := make(map[string]bool, len(model.Attributes))
	for i, definition := range model.Attributes {
		field := fmt.Sprintf("%sattributes[%d]", prefix, i)
		v.Required(field+".name", definition.Name).
			Required(field+".type", definition.Type).
			Custom(field+".name", seen[definition.Name], "Duplicate attribute name")
		seen[definition.Name] = true
	}

	return v.Err()
}
