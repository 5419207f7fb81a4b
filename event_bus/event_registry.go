package event_bus

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bassbeaver/gdispatch/event_bus/event"
)

const (
	KernelEventBooted     = "kernelEvent.Booted"
	KernelEventTerminated = "kernelEvent.Terminated"
)

var ErrUnknownEvent = errors.New("unknown event")

// EventsRegistry maps the event names used in configuration to event types.
type EventsRegistry struct {
	events      map[string]event.Event
	eventsMutex sync.RWMutex
}

func (r *EventsRegistry) Register(name string, eventObj event.Event) {
	r.eventsMutex.Lock()
	defer r.eventsMutex.Unlock()

	r.events[name] = eventObj
}

func (r *EventsRegistry) GetEventByName(name string) (event.Event, error) {
	r.eventsMutex.RLock()
	defer r.eventsMutex.RUnlock()

	eventObj, known := r.events[name]
	if !known {
		return nil, fmt.Errorf("%w %s", ErrUnknownEvent, name)
	}

	return eventObj, nil
}

// Names lists registered event names, sorted.
func (r *EventsRegistry) Names() []string {
	r.eventsMutex.RLock()
	defer r.eventsMutex.RUnlock()

	names := make([]string, 0, len(r.events))
	for name := range r.events {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

//--------------------

func NewRegistry() *EventsRegistry {
	return &EventsRegistry{
		events: make(map[string]event.Event),
	}
}

// NewDefaultRegistry knows the events every kernel dispatches.
func NewDefaultRegistry() *EventsRegistry {
	r := NewRegistry()
	r.Register(KernelEventBooted, (*event.Booted)(nil))
	r.Register(KernelEventTerminated, (*event.Terminated)(nil))

	return r
}
