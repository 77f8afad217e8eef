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

// Package config defines the configuration file for evaluating queries.
package config

import (
	"fmt"

	"github.com/ebay/sparqlcore/query/exec"
	"github.com/ebay/sparqlcore/rdf"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Config is the top-level configuration. The zero value is a usable default.
type Config struct {
	// Evaluation controls how solutions are grouped and ordered.
	Evaluation Evaluation `json:"evaluation"`
	// LogLevel is a logrus level name, such as "debug". If empty, "info" is used.
	LogLevel string `json:"logLevel,omitempty"`
}

// Evaluation contains the options for evaluating one query.
type Evaluation struct {
	Collation Collation `json:"collation"`
}

// Collation controls how string literals are ordered. The zero value orders
// strings by code point, after Unicode normalization.
type Collation struct {
	// Language is a BCP 47 tag whose collation rules apply, such as "sv". If
	// empty, language-independent rules are used.
	Language string `json:"language,omitempty"`
	// If set, letter case is ignored.
	IgnoreCase bool `json:"ignoreCase,omitempty"`
	// If set, sequences of digits are ordered by their numeric value.
	Numeric bool `json:"numeric,omitempty"`
}

// CompareOptions returns the options for comparing terms. It returns an error
// if the collation language is not a well-formed tag.
func (e *Evaluation) CompareOptions() (rdf.CompareOptions, error) {
	opts := rdf.CompareOptions{
		IgnoreCase: e.Collation.IgnoreCase,
		Numeric:    e.Collation.Numeric,
	}
	if e.Collation.Language != "" {
		tag, err := language.Parse(e.Collation.Language)
		if err != nil {
			return opts, fmt.Errorf("invalid collation language %q: %v", e.Collation.Language, err)
		}
		opts.Language = tag
	}
	return opts, nil
}

// ContextOptions returns the options for creating an exec.Context.
func (e *Evaluation) ContextOptions() ([]exec.ContextOption, error) {
	opts, err := e.CompareOptions()
	if err != nil {
		return nil, err
	}
	return []exec.ContextOption{exec.WithCompareOptions(opts)}, nil
}

// Level returns the configured log level.
func (cfg *Config) Level() (log.Level, error) {
	if cfg.LogLevel == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(cfg.LogLevel)
}

// validate checks the fields that aren't checked by decoding.
func (cfg *Config) validate() error {
	if _, err := cfg.Evaluation.CompareOptions(); err != nil {
		return err
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	return nil
}
