// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

// Conjunction links a predicate to the sibling before it.
type Conjunction int

// Conjunctions.
const (
	And Conjunction = iota
	Or
)

// String returns AND or OR.
func (c Conjunction) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// Condition is a single "left OP right" predicate. Conjunction is ignored
// when the condition is the first entry of its list.
type Condition struct {
	Left        Term
	Operator    string
	Right       Term
	Conjunction Conjunction
}

// ConditionsGroup is a parenthesized list of entries.
type ConditionsGroup struct {
	Entries     []Entry
	Conjunction Conjunction
}

// EntryKind tags the payload of an Entry.
type EntryKind int

// Entry kinds.
const (
	ConditionEntry EntryKind = iota
	GroupEntry
)

// Entry is either a Condition or a nested ConditionsGroup.
type Entry struct {
	Kind      EntryKind
	Condition Condition
	Group     ConditionsGroup
}

// Conjunction returns the conjunction of whichever payload is set.
func (e Entry) Conjunction() Conjunction {
	if e.Kind == GroupEntry {
		return e.Group.Conjunction
	}
	return e.Condition.Conjunction
}

// ConditionsClause is the ordered predicate list behind WHERE and JOIN ... ON.
type ConditionsClause struct {
	entries []Entry
}

// AddCondition appends a condition.
func (c *ConditionsClause) AddCondition(cond Condition) {
	c.entries = append(c.entries, Entry{Kind: ConditionEntry, Condition: cond})
}

// AddGroup appends a group. Empty groups are dropped since "()" is not valid SQL.
func (c *ConditionsClause) AddGroup(group ConditionsGroup) {
	if len(group.Entries) == 0 {
		return
	}
	c.entries = append(c.entries, Entry{Kind: GroupEntry, Group: group})
}

// Group wraps the clause's entries into a group carrying conj.
func (c *ConditionsClause) Group(conj Conjunction) ConditionsGroup {
	return ConditionsGroup{Entries: c.Entries(), Conjunction: conj}
}

// Entries returns a copy of the entries in render order.
func (c *ConditionsClause) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of top-level entries.
func (c *ConditionsClause) Len() int { return len(c.entries) }

// IsEmpty reports whether the clause has no entries.
func (c *ConditionsClause) IsEmpty() bool { return len(c.entries) == 0 }

// Reset drops every entry.
func (c *ConditionsClause) Reset() { c.entries = nil }
