// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package plandef holds small definitions shared by the query packages:
// variable sets and sort directions.
package plandef

import (
	"sort"
	"strings"
)

// A VarSet is a set of variable names. It's represented as a sorted slice of
// unique names, without the leading '?'. The nil VarSet is empty.
type VarSet []string

// NewVarSet creates a new VarSet from the given names. Duplicates and empty
// names are dropped.
func NewVarSet(names ...string) VarSet {
	if len(names) == 0 {
		return nil
	}
	set := make(VarSet, 0, len(names))
	for _, n := range names {
		if n != "" {
			set = append(set, n)
		}
	}
	sort.Strings(set)
	out := set[:0]
	for i, n := range set {
		if i == 0 || n != set[i-1] {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Contains returns true if 'name' is in the set, false otherwise.
func (set VarSet) Contains(name string) bool {
	i := sort.SearchStrings(set, name)
	return i < len(set) && set[i] == name
}

// ContainsSet return true if all variables in 'other' are in 'set', false
// otherwise.
func (set VarSet) ContainsSet(other VarSet) bool {
	for _, n := range other {
		if !set.Contains(n) {
			return false
		}
	}
	return true
}

// Intersect returns a new set with the variables present in both 'set' and
// 'other'.
func (set VarSet) Intersect(other VarSet) VarSet {
	var both VarSet
	left, right := set, other
	for len(left) > 0 && len(right) > 0 {
		switch {
		case left[0] == right[0]:
			both = append(both, left[0])
			left, right = left[1:], right[1:]
		case left[0] < right[0]:
			left = left[1:]
		default:
			right = right[1:]
		}
	}
	return both
}

// Union returns a new set with the variables present in either 'set' or
// 'other'.
func (set VarSet) Union(other VarSet) VarSet {
	var either VarSet
	left, right := set, other
	for len(left) > 0 && len(right) > 0 {
		switch {
		case left[0] == right[0]:
			either = append(either, left[0])
			left, right = left[1:], right[1:]
		case left[0] < right[0]:
			either = append(either, left[0])
			left = left[1:]
		default:
			either = append(either, right[0])
			right = right[1:]
		}
	}
	either = append(either, left...)
	return append(either, right...)
}

// Sub returns a new set with the variables present in 'set' but not 'other'.
func (set VarSet) Sub(other VarSet) VarSet {
	var diff VarSet
	left, right := set, other
	for len(left) > 0 && len(right) > 0 {
		switch {
		case left[0] == right[0]:
			left, right = left[1:], right[1:]
		case left[0] < right[0]:
			diff = append(diff, left[0])
			left = left[1:]
		default:
			right = right[1:]
		}
	}
	return append(diff, left...)
}

// Filter returns a new set with the variables for which 'keep' returns true.
func (set VarSet) Filter(keep func(name string) bool) VarSet {
	var out VarSet
	for _, n := range set {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Equal returns true if the two sets are made up of the same variable names,
// false otherwise.
func (set VarSet) Equal(other VarSet) bool {
	if len(set) != len(other) {
		return false
	}
	for i := range set {
		if set[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns a space-delimited ordered list of variables, like "?a ?b".
func (set VarSet) String() string {
	var b strings.Builder
	set.Key(&b)
	return b.String()
}

// Key implements cmp.Key.
func (set VarSet) Key(b *strings.Builder) {
	for i, n := range set {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('?')
		b.WriteString(n)
	}
}

// UnionAll returns the union of all the given sets.
func UnionAll(sets ...VarSet) VarSet {
	var all VarSet
	for _, s := range sets {
		all = all.Union(s)
	}
	return all
}

// SortDirection is the direction that a sort should be in.
type SortDirection int

// Possible values for SortDirection. The zero value is SortAsc.
const (
	SortAsc SortDirection = iota
	SortDesc
)

// String returns "ASC" or "DESC".
func (d SortDirection) String() string {
	if d == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// Modifier returns 1 for SortAsc and -1 for SortDesc. Multiplying an ascending
// comparison result by the modifier yields the comparison in this direction.
func (d SortDirection) Modifier() int {
	if d == SortDesc {
		return -1
	}
	return 1
}
