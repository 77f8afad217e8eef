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
	"github.com/ebay/sparqlcore/rdf"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func Test_NewContext(t *testing.T) {
	assert := assert.New(t)
	m := binding.NewMultiset("x")
	ctx := NewContext(m)
	assert.Equal(m, ctx.Binder())
	assert.Equal(log.StandardLogger(), ctx.Logger())
	assert.Equal(rdf.CompareOptions{}, ctx.NodeComparer().Options())
	assert.Equal(ctx.OrderingComparer().NodeComparer(), ctx.NodeComparer())

	logger, _ := logtest.NewNullLogger()
	opts := rdf.CompareOptions{IgnoreCase: true, Numeric: true}
	ctx = NewContext(m, WithCompareOptions(opts), WithLogger(logger))
	assert.Equal(logger, ctx.Logger())
	assert.Equal(opts, ctx.NodeComparer().Options())
}

func Test_OrderBy_collation(t *testing.T) {
	ctx := newTestContext(t, []string{"s"},
		[]rdf.Term{str("b")},
		[]rdf.Term{str("A")},
		[]rdf.Term{str("a10")},
		[]rdf.Term{str("a9")},
	)
	ob, err := new(OrderByBuilder).Variable("s", 0).Build()
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 1}, sorted(ctx, ob))

	opts := rdf.CompareOptions{IgnoreCase: true, Numeric: true}
	ctx = NewContext(ctx.Binder(), WithCompareOptions(opts))
	assert.Equal(t, []int{2, 4, 3, 1}, sorted(ctx, ob))
}

func Test_BindingGroup(t *testing.T) {
	assert := assert.New(t)
	ids := []int{3, 1}
	g := NewBindingGroup(ids...)
	ids[0] = 7
	assert.Equal([]int{3, 1}, g.IDs())
	assert.Equal(2, g.Len())
	assert.Empty(g.Assignments())
	assert.Nil(g.AssignedVariables())
	assert.Equal("[3 1]", g.String())

	g.assign("k", str("v"))
	g.assign("n", nil)
	sub := g.subgroup()
	sub.add(5)
	sub.assign("m", num(1))
	assert.Equal([]int{5}, sub.IDs())
	assert.Equal("?k ?m ?n", sub.AssignedVariables().String())
	assert.Equal("?k ?n", g.AssignedVariables().String())
	assert.Equal(`[3 1] ?k="v" ?n=UNDEF`, g.String())

	copied := g.Assignments()
	copied["k"] = str("changed")
	v, ok := g.Assignment("k")
	assert.True(ok)
	assert.Equal(str("v"), v)
}
