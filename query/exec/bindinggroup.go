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

package exec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ebay/sparqlcore/query/plandef"
	"github.com/ebay/sparqlcore/rdf"
)

// A BindingGroup is a set of solutions that share the same GROUP BY key,
// along with the values of any "(expr AS ?var)" assignments made while
// grouping. A nil assigned value is distinct from no assignment: it records
// that the key was unbound or failed to evaluate.
type BindingGroup struct {
	ids         []int
	assignments map[string]rdf.Term
}

// NewBindingGroup returns a group containing the given solution IDs and no
// assignments.
func NewBindingGroup(ids ...int) *BindingGroup {
	return &BindingGroup{
		ids:         append([]int(nil), ids...),
		assignments: make(map[string]rdf.Term),
	}
}

// subgroup returns a new empty group that carries a copy of g's assignments.
func (g *BindingGroup) subgroup() *BindingGroup {
	sub := &BindingGroup{assignments: make(map[string]rdf.Term, len(g.assignments)+1)}
	for k, v := range g.assignments {
		sub.assignments[k] = v
	}
	return sub
}

func (g *BindingGroup) add(id int) {
	g.ids = append(g.ids, id)
}

func (g *BindingGroup) assign(name string, value rdf.Term) {
	g.assignments[name] = value
}

// IDs returns the solution IDs in the group, in the order they were added.
// The returned slice must not be modified.
func (g *BindingGroup) IDs() []int {
	return g.ids
}

// Len returns the number of solutions in the group.
func (g *BindingGroup) Len() int {
	return len(g.ids)
}

// Assignment returns the value assigned to 'name'. The bool is false if no
// assignment was made; the term may be nil even if it's true.
func (g *BindingGroup) Assignment(name string) (rdf.Term, bool) {
	v, ok := g.assignments[name]
	return v, ok
}

// Assignments returns a copy of the group's assignments.
func (g *BindingGroup) Assignments() map[string]rdf.Term {
	res := make(map[string]rdf.Term, len(g.assignments))
	for k, v := range g.assignments {
		res[k] = v
	}
	return res
}

// AssignedVariables returns the names of the variables assigned in this group.
func (g *BindingGroup) AssignedVariables() plandef.VarSet {
	names := make([]string, 0, len(g.assignments))
	for k := range g.assignments {
		names = append(names, k)
	}
	return plandef.NewVarSet(names...)
}

// String returns a string like "[1 3] ?k="a"".
func (g *BindingGroup) String() string {
	var b strings.Builder
	fmt.Fprint(&b, g.ids)
	names := make([]string, 0, len(g.assignments))
	for k := range g.assignments {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		v := g.assignments[name]
		b.WriteString(" ?" + name + "=")
		if v == nil {
			b.WriteString("UNDEF")
		} else {
			b.WriteString(v.String())
		}
	}
	return b.String()
}
