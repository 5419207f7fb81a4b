package event_bus

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/bassbeaver/gdispatch/event_bus/event"
)

type registeredListener struct {
	priority int
	call     func(event.Event)
}

// EventBus runs listeners of an event type in priority order, lower priority first.
// Listeners with equal priority run in registration order.
type EventBus struct {
	listeners      map[reflect.Type][]registeredListener
	listenersMutex sync.RWMutex
}

// AppendListener registers listenerFunc, a function taking the event pointer type of eventObj.
func (b *EventBus) AppendListener(eventObj event.Event, listenerFunc interface{}, priority int) error {
	eventType := reflect.TypeOf(eventObj)
	if !IsListenerForEvent(listenerFunc, eventObj) {
		return fmt.Errorf("%T is not event listener for %s", listenerFunc, eventType.String())
	}

	listenerValue := reflect.ValueOf(listenerFunc)

	b.listenersMutex.Lock()
	defer b.listenersMutex.Unlock()

	// Dispatch may be iterating the current chain
	chain := make([]registeredListener, 0, len(b.listeners[eventType])+1)
	chain = append(chain, b.listeners[eventType]...)
	chain = append(chain, registeredListener{
		priority: priority,
		call: func(e event.Event) {
			listenerValue.Call([]reflect.Value{reflect.ValueOf(e)})
		},
	})
	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].priority < chain[j].priority
	})
	b.listeners[eventType] = chain

	return nil
}

// ListenersCount returns how many listeners wait for events of the type of eventObj.
func (b *EventBus) ListenersCount(eventObj event.Event) int {
	b.listenersMutex.RLock()
	defer b.listenersMutex.RUnlock()

	return len(b.listeners[reflect.TypeOf(eventObj)])
}

// Dispatch calls listeners until one of them stops propagation.
func (b *EventBus) Dispatch(eventObj event.Event) {
	b.listenersMutex.RLock()
	chain := b.listeners[reflect.TypeOf(eventObj)]
	b.listenersMutex.RUnlock()

	for _, registered := range chain {
		registered.call(eventObj)

		if eventObj.IsPropagationStopped() {
			return
		}
	}
}

//--------------------

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[reflect.Type][]registeredListener),
	}
}

// IsListenerForEvent checks that listener is a function with a single argument of the event pointer type.
func IsListenerForEvent(listener interface{}, eventPtr event.Event) bool {
	listenerType := reflect.TypeOf(listener)
	if nil == listenerType || reflect.Func != listenerType.Kind() || 1 != listenerType.NumIn() {
		return false
	}

	return listenerType.In(0) == reflect.TypeOf(eventPtr)
}
