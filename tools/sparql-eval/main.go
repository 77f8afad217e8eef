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

// Command sparql-eval groups and orders solutions read from YAML files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	docopt "github.com/docopt/docopt-go"
	"github.com/ebay/sparqlcore/config"
	"github.com/ebay/sparqlcore/query/parser"
	"github.com/ebay/sparqlcore/util/debuglog"
	"github.com/ebay/sparqlcore/util/parallel"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var fmtr = message.NewPrinter(language.English)

const usage = `sparql-eval groups and orders solutions read from YAML files.

Usage:
  sparql-eval [--config=FILE] [--write-config=FILE] [--group=COND]... [--order=COND]...
              [--dot=FILE] [--dump] [--jobs=N] FILE...

Options:
  --config=FILE        JSON configuration file with evaluation and logging options.
  --write-config=FILE  Write the configuration in effect to FILE as JSON.
  --group=COND         Add a GROUP BY condition, such as ?x or "(STR(?x) AS ?s)".
  --order=COND         Add an ORDER BY condition, such as ?x or "DESC(?x)".
  --dot=FILE           Write the pattern of the first FILE as a Graphviz diagram.
                       The format is taken from the extension: .gv, .pdf, .png, or .svg.
  --dump               Print the parsed pattern and conditions.
  --jobs=N             Evaluate at most N files at once; 0 means no limit [default: 0].

Each FILE is a YAML document with a list of triple patterns under 'where' and
a list of solutions under 'solutions'. A solution maps variable names to terms.

Examples:
  # Group people by city, then order each group by descending age.
  sparql-eval --group='(?city AS ?c)' --order='DESC(?age)' people.yaml

  # where:
  #   - ?p <livesIn> ?city .
  # solutions:
  #   - {p: "<alice>", city: "<paris>", age: "31"}
  #   - {p: "<bob>", city: "<rome>"}
`

type options struct {
	ConfigFile      string   `docopt:"--config"`
	WriteConfigFile string   `docopt:"--write-config"`
	Groups          []string `docopt:"--group"`
	Orders          []string `docopt:"--order"`
	DotFile         string   `docopt:"--dot"`
	Dump            bool     `docopt:"--dump"`
	JobsString      string   `docopt:"--jobs"`
	Files           []string `docopt:"FILE"`

	config          *config.Config
	jobs            int
	groupConditions []parser.GroupCondition
	orderConditions []parser.OrderCondition
}

func parseArgs(argv []string) (*options, error) {
	opts, err := docopt.ParseArgs(usage, argv, "")
	if err != nil {
		return nil, fmt.Errorf("error parsing command-line arguments: %v", err)
	}
	var options options
	err = opts.Bind(&options)
	if err != nil {
		return nil, fmt.Errorf("error binding command-line arguments: %v\nfrom: %+v", err, opts)
	}
	if options.JobsString != "" {
		options.jobs, err = strconv.Atoi(options.JobsString)
		if err != nil || options.jobs < 0 {
			return nil, fmt.Errorf("invalid --jobs %q: must be a non-negative integer", options.JobsString)
		}
	}
	options.config = new(config.Config)
	if options.ConfigFile != "" {
		options.config, err = config.Load(options.ConfigFile)
		if err != nil {
			return nil, err
		}
	}
	for _, in := range options.Groups {
		cond, err := parser.ParseGroupCondition(in)
		if err != nil {
			return nil, err
		}
		options.groupConditions = append(options.groupConditions, cond)
	}
	for _, in := range options.Orders {
		cond, err := parser.ParseOrderCondition(in)
		if err != nil {
			return nil, err
		}
		options.orderConditions = append(options.orderConditions, cond)
	}
	return &options, nil
}

func main() {
	options, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	err = debuglog.Configure(debuglog.Options{Level: options.config.LogLevel})
	if err != nil {
		log.Fatal(err)
	}
	err = run(context.Background(), options, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

// run evaluates the files concurrently and then writes the results to 'out'
// in the order the files were given.
func run(ctx context.Context, options *options, out io.Writer) error {
	if options.WriteConfigFile != "" {
		if err := config.Write(options.config, options.WriteConfigFile); err != nil {
			return err
		}
	}
	results := make([]strings.Builder, len(options.Files))
	err := parallel.InvokeN(ctx, len(options.Files), options.jobs, func(ctx context.Context, i int) error {
		in, err := loadInput(options.Files[i])
		if err != nil {
			return err
		}
		var dotFile string
		if i == 0 {
			dotFile = options.DotFile
		}
		return evaluate(in, options, dotFile, &results[i])
	})
	if err != nil {
		return err
	}
	for i := range results {
		if len(options.Files) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", options.Files[i])
		}
		io.WriteString(out, results[i].String())
	}
	return nil
}
