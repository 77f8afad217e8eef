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

package cmp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type word string

func (w word) Key(b *strings.Builder) {
	b.WriteString(string(w))
}

func Test_GetKey(t *testing.T) {
	assert.Equal(t, "", GetKey(word("")))
	assert.Equal(t, "alice", GetKey(word("alice")))
}

func Test_WriteKeys(t *testing.T) {
	assert := assert.New(t)
	var b strings.Builder
	WriteKeys(&b, ' ', []word{})
	assert.Equal("", b.String())
	WriteKeys(&b, ' ', []word{"bob"})
	assert.Equal("bob", b.String())
	b.Reset()
	WriteKeys(&b, ',', []word{"alice", "bob", "eve"})
	assert.Equal("alice,bob,eve", b.String())
}

func Test_Sign(t *testing.T) {
	tests := []struct {
		in  int
		exp int
	}{
		{-1234, -1},
		{-1, -1},
		{0, 0},
		{1, 1},
		{int(^uint(0) >> 1), 1},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, Sign(test.in), "Sign(%d)", test.in)
	}
}
