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

package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_WriteTo(t *testing.T) {
	tbl := New("s", "o")
	tbl.AddRow("<http://a>", `"1"`)
	tbl.AddRow("<http://bb>")
	tbl.Empty = "-"
	t.Run("Left", func(t *testing.T) {
		var buf strings.Builder
		tbl.Align = AlignLeft
		_, err := tbl.WriteTo(&buf)
		assert.NoError(t, err)
		assert.Equal(t, `
 s           | o   |
 ----------- | --- |
 <http://a>  | "1" |
 <http://bb> | -   |
`, "\n"+buf.String())
	})
	t.Run("Right", func(t *testing.T) {
		var buf strings.Builder
		tbl.Align = AlignRight
		_, err := tbl.WriteTo(&buf)
		assert.NoError(t, err)
		assert.Equal(t, `
           s |   o |
 ----------- | --- |
  <http://a> | "1" |
 <http://bb> |   - |
`, "\n"+buf.String())
	})
}

func Test_WriteTo_utf8(t *testing.T) {
	assert := assert.New(t)
	tbl := &Table{Align: AlignRight}
	tbl.AddRow("Beyoncé")
	tbl.AddRow("shrt")
	var buf strings.Builder
	tbl.WriteTo(&buf)
	assert.Equal("\n Beyoncé |\n    shrt |\n", "\n"+buf.String())
	assert.Equal(2, tbl.Len())
}

func Test_WriteTo_empty(t *testing.T) {
	var buf strings.Builder
	n, err := (&Table{}).WriteTo(&buf)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buf.String())
}
