// Package criteria models a filter expression as an AND of OR-groups.
//
// A Group holds Lists and is satisfied when every List is. A List holds
// Filters and is satisfied when any of its valid Filters matches.
package criteria

import (
	nt "sifter/entity"
	"sifter/ordered"
)

// List is an OR-group of filters.
type List struct {
	ordered.Collection[nt.Filter]
}

// NewList creates a list holding filters.
func NewList(filters ...nt.Filter) *List {
	list := &List{}
	for _, flt := range filters {
		list.Add(flt)
	}
	return list
}

// Valid returns the filters with both field and value filled in.
func (list *List) Valid() (valid []nt.Filter) {
	for _, flt := range list.All() {
		if flt.Valid() {
			valid = append(valid, flt)
		}
	}
	return
}

// Clone returns an independent copy.
func (list *List) Clone() *List {
	if list == nil {
		return nil
	}
	return NewList(list.All()...)
}

// Group is an AND-group of lists.
// Slots left empty by growing Set hold nil and count as empty lists.
type Group struct {
	ordered.Collection[*List]
}

// NewGroup creates a group holding lists.
func NewGroup(lists ...*List) *Group {
	group := &Group{}
	for _, list := range lists {
		group.Add(list)
	}
	return group
}

// Clone returns a deep copy, safe to evaluate while the original is edited.
func (group *Group) Clone() *Group {
	if group == nil {
		return nil
	}

	clone := &Group{}
	for _, list := range group.All() {
		clone.Add(list.Clone())
	}
	return clone
}

// Filters returns the filters of every list, in order, for display or export.
func (group *Group) Filters() (filters [][]nt.Filter) {
	filters = [][]nt.Filter{}
	for _, list := range group.All() {
		if list == nil {
			filters = append(filters, []nt.Filter{})
			continue
		}
		filters = append(filters, list.All())
	}
	return
}

// FromFilters builds a group from nested filters, as read from config.
func FromFilters(filters [][]nt.Filter) *Group {
	group := &Group{}
	for _, orGroup := range filters {
		group.Add(NewList(orGroup...))
	}
	return group
}
