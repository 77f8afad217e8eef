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

package plandef

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewVarSet(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(VarSet{"a", "b", "c"}, NewVarSet("c", "a", "b", "a", ""))
	assert.Nil(NewVarSet())
	assert.Nil(NewVarSet(""))
}

func Test_VarSet_ops(t *testing.T) {
	abc := NewVarSet("a", "b", "c")
	bd := NewVarSet("b", "d")
	tests := []struct {
		name string
		got  VarSet
		exp  VarSet
	}{
		{"union", abc.Union(bd), VarSet{"a", "b", "c", "d"}},
		{"unionEmpty", abc.Union(nil), abc},
		{"intersect", abc.Intersect(bd), VarSet{"b"}},
		{"intersectEmpty", abc.Intersect(nil), nil},
		{"sub", abc.Sub(bd), VarSet{"a", "c"}},
		{"subAll", bd.Sub(abc.Union(bd)), nil},
		{"filter", abc.Filter(func(n string) bool { return n != "b" }), VarSet{"a", "c"}},
		{"unionAll", UnionAll(bd, abc, NewVarSet("e")), VarSet{"a", "b", "c", "d", "e"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, test.got)
		})
	}
}

func Test_VarSet_Contains(t *testing.T) {
	assert := assert.New(t)
	set := NewVarSet("x", "y")
	assert.True(set.Contains("x"))
	assert.False(set.Contains("z"))
	assert.False(VarSet(nil).Contains("x"))
	assert.True(set.ContainsSet(NewVarSet("y")))
	assert.True(set.ContainsSet(nil))
	assert.False(set.ContainsSet(NewVarSet("y", "z")))
}

func Test_VarSet_Equal(t *testing.T) {
	assert := assert.New(t)
	assert.True(NewVarSet("a", "b").Equal(NewVarSet("b", "a")))
	assert.True(VarSet(nil).Equal(VarSet{}))
	assert.False(NewVarSet("a").Equal(NewVarSet("b")))
	assert.False(NewVarSet("a").Equal(NewVarSet("a", "b")))
}

func Test_VarSet_String(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("?a ?b", NewVarSet("b", "a").String())
	assert.Equal("", VarSet(nil).String())
	var b strings.Builder
	NewVarSet("z").Key(&b)
	assert.Equal("?z", b.String())
}

func Test_SortDirection(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("ASC", SortAsc.String())
	assert.Equal("DESC", SortDesc.String())
	assert.Equal(1, SortAsc.Modifier())
	assert.Equal(-1, SortDesc.Modifier())
}
