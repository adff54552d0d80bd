package binding

import (
	"slices"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Variable is an observable value shared by any number of application
// instances, the in-process counterpart of an experiment property.
//
// Changes are delivered synchronously from Set/Clear. Delivery for one
// Variable is serialized: concurrent setters wait for the previous change to
// reach every handler, so handlers observe changes in the order they were
// made. A handler must not set the Variable it is subscribed to.
type Variable struct {
	name string

	deliver sync.Mutex

	mu       sync.Mutex
	value    cty.Value
	handlers map[uint64]Handler
	nextID   uint64
}

// NewVariable creates a Variable with an initial value, which may be
// cty.NilVal for "not yet known".
func NewVariable(name string, initial cty.Value) *Variable {
	return &Variable{
		name:     name,
		value:    initial,
		handlers: make(map[uint64]Handler),
	}
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Value implements Binding.
func (v *Variable) Value() (cty.Value, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, Present(v.value)
}

// Set changes the value and notifies every subscriber.
func (v *Variable) Set(val cty.Value) {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	v.value = val
	ids := make([]uint64, 0, len(v.handlers))
	for id := range v.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, v.handlers[id])
	}
	v.mu.Unlock()

	present := Present(val)
	for _, h := range handlers {
		h(val, present)
	}
}

// SetGo converts a native Go value and sets it.
func (v *Variable) SetGo(val any) error {
	cv, err := ToValue(val)
	if err != nil {
		return err
	}
	v.Set(cv)
	return nil
}

// Clear makes the value absent and notifies every subscriber.
func (v *Variable) Clear() {
	v.Set(cty.NilVal)
}

// OnChange implements Dynamic.
func (v *Variable) OnChange(h Handler) Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.handlers[id] = h
	return &subscription{v: v, id: id}
}

// Subscribers returns the number of active subscriptions.
func (v *Variable) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.handlers)
}

type subscription struct {
	once sync.Once
	v    *Variable
	id   uint64
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.v.mu.Lock()
		delete(s.v.handlers, s.id)
		s.v.mu.Unlock()
	})
}
