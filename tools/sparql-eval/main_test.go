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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ebay/sparqlcore/config"
	"github.com/ebay/sparqlcore/query/parser"
	"github.com/ebay/sparqlcore/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `
where:
  - "?p <livesIn> ?city ."
solutions:
  - {p: "<alice>", city: "<paris>", age: "31"}
  - {p: "<bob>", city: "<rome>", age: "25"}
  - {p: "<carol>", city: "<paris>", age: "40"}
  - {p: "<dave>"}
`

func writeFile(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func Test_parseInput(t *testing.T) {
	assert := assert.New(t)
	in, err := parseInput("people.yaml", []byte(people))
	require.NoError(t, err)
	assert.Equal("{ ?p <livesIn> ?city }", in.where.String())
	require.Len(t, in.solutions, 4)
	assert.Equal(map[string]rdf.Term{
		"p":    &rdf.IRI{Value: "alice"},
		"city": &rdf.IRI{Value: "paris"},
		"age":  rdf.NewInteger(31),
	}, in.solutions[0])
	assert.Equal(map[string]rdf.Term{"p": &rdf.IRI{Value: "dave"}}, in.solutions[3])

	m, err := in.multiset()
	require.NoError(t, err)
	assert.Equal([]string{"age", "city", "p"}, m.Columns())
	assert.Equal(4, m.Len())
	assert.Nil(m.Value("city", 4))

	_, err = parseInput("bad.yaml", []byte("solutions:\n  - {x: \"<a\"}\n"))
	assert.Error(err)
	_, err = parseInput("bad.yaml", []byte("where:\n  - \"?s <p>\"\n"))
	assert.Error(err)
	_, err = parseInput("bad.yaml", []byte("select: [a]\n"))
	assert.Error(err)
	_, err = parseInput("bad.yaml", []byte("solutions:\n  - {x: \"?y\"}\n"))
	assert.Error(err)

	empty, err := parseInput("empty.yaml", nil)
	require.NoError(t, err)
	_, err = empty.multiset()
	assert.Error(err)
}

func testOptions(t *testing.T, groups, orders []string) *options {
	opts := &options{config: new(config.Config)}
	for _, in := range groups {
		c, err := parser.ParseGroupCondition(in)
		require.NoError(t, err)
		opts.groupConditions = append(opts.groupConditions, c)
	}
	for _, in := range orders {
		c, err := parser.ParseOrderCondition(in)
		require.NoError(t, err)
		opts.orderConditions = append(opts.orderConditions, c)
	}
	return opts
}

func Test_evaluate_grouped(t *testing.T) {
	assert := assert.New(t)
	in, err := parseInput("people.yaml", []byte(people))
	require.NoError(t, err)
	var out strings.Builder
	err = evaluate(in, testOptions(t, []string{"(?city AS ?c)"}, []string{"DESC(?age)"}), "", &out)
	require.NoError(t, err)
	assert.Contains(out.String(), "Variables: ?city ?p\n")
	assert.Contains(out.String(), "GROUP BY (?city AS ?c)\n")
	assert.Contains(out.String(), "ORDER BY DESC(?age)\n")
	assert.Contains(out.String(), "[3 1]")
	assert.Contains(out.String(), "UNDEF")
	assert.Contains(out.String(), "4 solutions in 3 groups\n")
	assert.NotContains(out.String(), "Ordering applies")
}

func Test_evaluate_ordered(t *testing.T) {
	assert := assert.New(t)
	in, err := parseInput("people.yaml", []byte(people))
	require.NoError(t, err)
	var out strings.Builder
	err = evaluate(in, testOptions(t, nil, []string{"?city", "DESC(?p)"}), "", &out)
	require.NoError(t, err)
	assert.Contains(out.String(), "Ordering applies to pattern: ?p <livesIn> ?city\n")
	assert.Contains(out.String(), "4 solutions\n")
	// carol sorts before alice within paris, and dave's unbound city sorts last.
	text := out.String()
	carol := strings.Index(text, "<carol>")
	alice := strings.Index(text, "<alice>")
	bob := strings.Index(text, "<bob>")
	dave := strings.Index(text, "<dave>")
	assert.True(carol < alice && alice < bob && bob < dave, "%s", text)
}

func Test_run(t *testing.T) {
	assert := assert.New(t)
	first := writeFile(t, "first.yaml", people)
	second := writeFile(t, "second.yaml", "solutions:\n  - {x: \"1\"}\n  - {x: \"1.0\"}\n")
	dot := filepath.Join(t.TempDir(), "pattern.gv")

	opts, err := parseArgs([]string{"--group=?x", "--dot=" + dot, first, second})
	require.NoError(t, err)
	assert.Equal([]string{first, second}, opts.Files)
	assert.Equal([]string{"?x"}, opts.Groups)

	var out strings.Builder
	require.NoError(t, run(context.Background(), opts, &out))
	firstAt := strings.Index(out.String(), "==> "+first+" <==")
	secondAt := strings.Index(out.String(), "==> "+second+" <==")
	assert.True(firstAt >= 0 && firstAt < secondAt, "%s", out.String())
	assert.Contains(out.String(), "2 solutions in 2 groups\n")

	dotText, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(string(dotText), "digraph pattern {")

	_, err = parseArgs([]string{"--order=DESC(", first})
	assert.Error(err)
	_, err = parseArgs([]string{"--jobs=-1", first})
	assert.EqualError(err, `invalid --jobs "-1": must be a non-negative integer`)
	_, err = parseArgs([]string{"--jobs=many", first})
	assert.Error(err)
	err = run(context.Background(), &options{config: new(config.Config), Files: []string{first + ".missing"}}, &out)
	assert.Error(err)
}

func Test_run_jobsAndWriteConfig(t *testing.T) {
	assert := assert.New(t)
	cfgFile := writeFile(t, "config.json", `{"evaluation": {"collation": {"language": "sv"}}, "logLevel": "debug"}`)
	written := filepath.Join(t.TempDir(), "effective.json")
	var files []string
	for i := 0; i < 4; i++ {
		files = append(files, writeFile(t, fmt.Sprintf("in%d.yaml", i), people))
	}
	args := append([]string{"--config=" + cfgFile, "--write-config=" + written, "--jobs=2", "--order=?age"}, files...)
	opts, err := parseArgs(args)
	require.NoError(t, err)
	assert.Equal(2, opts.jobs)

	var out strings.Builder
	require.NoError(t, run(context.Background(), opts, &out))
	for _, f := range files {
		assert.Contains(out.String(), "==> "+f+" <==")
	}
	cfg, err := config.Load(written)
	require.NoError(t, err)
	assert.Equal(opts.config, cfg)

	opts, err = parseArgs([]string{files[0]})
	require.NoError(t, err)
	assert.Equal(0, opts.jobs)
}
