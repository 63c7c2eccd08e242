// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package options

import (
	"context"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/platform/validate"
)

// Service resolves dropdown options through the dispatcher.
type Service struct {
	dispatcher *Dispatcher
}

func NewService(dispatcher *Dispatcher) *Service {
	return &Service{dispatcher: dispatcher}
}

/*
PropertyOptions returns the choices of property for the form dataDefinition,
given the current form values in model.

Properties nobody answers for yield an empty list.
*/
func (service *Service) PropertyOptions(ctx context.Context, dataDefinition, property string, model attribute.Settings) ([]string, error) {
	if err := (&validate.Validator{}).Identifier("property", property).Err(); err != nil {
		return nil, err
	}

	event := &GetPropertyOptionsEvent{DataDefinition: dataDefinition, PropertyName: property, Model: model}
	if err := service.dispatcher.Dispatch(ctx, EventGetPropertyOptions, event); err != nil {
		return nil, err
	}

	if !event.Handled() || event.Options() == nil {
		return []string{}, nil
	}
	return event.Options(), nil
}
