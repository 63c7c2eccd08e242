// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package options populates the dropdowns of the attribute settings form.

When the form needs the choices of a property it dispatches a
[GetPropertyOptionsEvent]. Listeners registered by [Subscriber] answer for the
properties they know, using the database [Catalog].
*/
package options

import (
	"context"
	"sync"

	"github.com/taibuivan/translatedtags/internal/attribute"
)

// EventGetPropertyOptions is the name listeners subscribe to.
const EventGetPropertyOptions = "property.get-options"

// GetPropertyOptionsEvent asks for the choices of one form property.
type GetPropertyOptionsEvent struct {
	// DataDefinition names the form container (e.g. "metamodel_attribute").
	DataDefinition string

	// PropertyName is the setting whose choices are requested.
	PropertyName string

	// Model carries the current (possibly unsaved) form values.
	Model attribute.Settings

	options []string
	handled bool
}

// SetOptions answers the event.
func (event *GetPropertyOptionsEvent) SetOptions(options []string) {
	event.options = options
	event.handled = true
}

// Options returns the answer, or nil when no listener responded.
func (event *GetPropertyOptionsEvent) Options() []string {
	return event.options
}

// Handled reports whether a listener answered.
func (event *GetPropertyOptionsEvent) Handled() bool {
	return event.handled
}

// Listener reacts to a dispatched event.
type Listener func(ctx context.Context, event *GetPropertyOptionsEvent) error

// Dispatcher fans events out to in-process listeners in registration order.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]Listener)}
}

// AddListener subscribes listener to the named event.
func (dispatcher *Dispatcher) AddListener(name string, listener Listener) *Dispatcher {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()

	dispatcher.listeners[name] = append(dispatcher.listeners[name], listener)
	return dispatcher
}

// Dispatch calls every listener of name and stops at the first error.
func (dispatcher *Dispatcher) Dispatch(ctx context.Context, name string, event *GetPropertyOptionsEvent) error {
	dispatcher.mu.RLock()
	listeners := dispatcher.listeners[name]
	dispatcher.mu.RUnlock()

	for _, listener := range listeners {
		if err := listener(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
