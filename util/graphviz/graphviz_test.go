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

package graphviz

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FormatOf(t *testing.T) {
	tests := []struct {
		filename string
		exp      Format
		expErr   bool
	}{
		{"plan.pdf", PDF, false},
		{"PLAN.PNG", PNG, false},
		{"a/b/c.svg", SVG, false},
		{"tree.dot", Dot, false},
		{"tree.gv", Dot, false},
		{"tree", "", true},
		{"tree.jpeg", "", true},
	}
	for _, test := range tests {
		t.Run(test.filename, func(t *testing.T) {
			f, err := FormatOf(test.filename)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.exp, f)
		})
	}
}

func Test_Render_dot(t *testing.T) {
	var buf strings.Builder
	err := Render(&buf, Dot, func(w io.Writer) {
		io.WriteString(w, "digraph g { a -> b }\n")
	})
	assert.NoError(t, err)
	assert.Equal(t, "digraph g { a -> b }\n", buf.String())
}

func Test_Create_dot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "g.dot")
	err := Create(filename, func(w io.Writer) {
		io.WriteString(w, "digraph g {}\n")
	})
	require.NoError(t, err)
	contents, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "digraph g {}\n", string(contents))
}
