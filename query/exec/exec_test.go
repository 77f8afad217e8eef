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
	"testing"

	"github.com/ebay/sparqlcore/query/binding"
	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/stretchr/testify/require"
)

// newTestContext returns a context over a multiset with the given columns and
// rows. The rows get IDs 1, 2, 3, and so on.
func newTestContext(t *testing.T, columns []string, rows ...[]rdf.Term) *Context {
	m := binding.NewMultiset(columns...)
	for _, row := range rows {
		_, err := m.Add(row...)
		require.NoError(t, err)
	}
	return NewContext(m)
}

func str(s string) rdf.Term {
	return rdf.NewString(s)
}

func num(v int64) rdf.Term {
	return rdf.NewInteger(v)
}

func iri(v string) rdf.Term {
	return &rdf.IRI{Value: v}
}

func varExpr(name string) expr.Expression {
	return &expr.Var{Name: name}
}

// groupIDs returns the IDs of each group.
func groupIDs(groups []*BindingGroup) [][]int {
	res := make([][]int, len(groups))
	for i, g := range groups {
		res[i] = g.IDs()
	}
	return res
}
