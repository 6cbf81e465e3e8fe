// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import "strconv"

// Binding is one bound value and the slot name it was given.
type Binding struct {
	Name  string
	Value interface{}
}

// Bindings allocates placeholder slots for the values of one statement.
// Slots are named v1, v2, ... in the order values are added. Nested
// builders of the same statement share one *Bindings.
type Bindings struct {
	counter int
	entries []Binding
}

// NewBindings returns an empty manager whose first slot is v1.
func NewBindings() *Bindings {
	return &Bindings{counter: 1}
}

// Add registers value and returns the token to embed in SQL. An
// Expression is returned verbatim and consumes no slot.
func (b *Bindings) Add(value interface{}) string {
	switch v := value.(type) {
	case Expression:
		return v.value
	case *Expression:
		if v != nil {
			return v.value
		}
	}
	if b.counter == 0 {
		b.counter = 1
	}
	name := "v" + strconv.Itoa(b.counter)
	b.counter++
	b.entries = append(b.entries, Binding{Name: name, Value: value})
	return ":" + name
}

// AddTerm is Add returning a raw Term ready for a Condition or Set.
func (b *Bindings) AddTerm(value interface{}) Term {
	return Raw(b.Add(value)).Term()
}

// Values returns the bound values in slot order.
func (b *Bindings) Values() []interface{} {
	values := make([]interface{}, len(b.entries))
	for i, e := range b.entries {
		values[i] = e.Value
	}
	return values
}

// Named returns a copy of the bindings in slot order.
func (b *Bindings) Named() []Binding {
	out := make([]Binding, len(b.entries))
	copy(out, b.entries)
	return out
}

// Map returns slot name to value.
func (b *Bindings) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(b.entries))
	for _, e := range b.entries {
		m[e.Name] = e.Value
	}
	return m
}

// Len returns the number of bound values.
func (b *Bindings) Len() int { return len(b.entries) }

// Reset clears every slot and restarts numbering at v1.
func (b *Bindings) Reset() {
	b.counter = 1
	b.entries = nil
}

// Bind registers value under an explicit slot name, replacing any value
// already bound to it, and returns the token to embed in SQL. Named
// slots do not advance the v1, v2, ... numbering.
func (b *Bindings) Bind(name string, value interface{}) string {
	for i := range b.entries {
		if b.entries[i].Name == name {
			b.entries[i].Value = value
			return ":" + name
		}
	}
	b.entries = append(b.entries, Binding{Name: name, Value: value})
	return ":" + name
}
