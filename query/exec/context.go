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

// Package exec implements the GROUP BY and ORDER BY stages of query
// evaluation. Both operate on a multiset of solutions that's already been
// produced by evaluating the query's graph pattern.
package exec

import (
	"github.com/ebay/sparqlcore/query/binding"
	"github.com/ebay/sparqlcore/query/expr"
	"github.com/ebay/sparqlcore/query/pattern"
	"github.com/ebay/sparqlcore/rdf"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidArgument is returned (wrapped) by the builders in this package. It
// is the same error as pattern.ErrInvalidArgument.
var ErrInvalidArgument = pattern.ErrInvalidArgument

// Context holds the state for evaluating one query. It's created once per
// query and isn't modified by the GroupBy and OrderBy chains that use it. A
// Context must not be shared between goroutines, since its comparers aren't
// safe for concurrent use.
type Context struct {
	binder   binding.Binder
	ordering *rdf.OrderingComparer
	logger   log.FieldLogger
}

// Context implements expr.Context.
var _ expr.Context = (*Context)(nil)

// A ContextOption configures a Context.
type ContextOption func(*contextOptions)

type contextOptions struct {
	compare rdf.CompareOptions
	logger  log.FieldLogger
}

// WithCompareOptions sets how string literals are compared. The default is
// the zero value of rdf.CompareOptions.
func WithCompareOptions(opts rdf.CompareOptions) ContextOption {
	return func(o *contextOptions) {
		o.compare = opts
	}
}

// WithLogger sets the logger that evaluation problems are reported to. The
// default is the logrus standard logger.
func WithLogger(logger log.FieldLogger) ContextOption {
	return func(o *contextOptions) {
		o.logger = logger
	}
}

// NewContext returns a Context for evaluating against the solutions in
// 'binder'.
func NewContext(binder binding.Binder, opts ...ContextOption) *Context {
	options := contextOptions{logger: log.StandardLogger()}
	for _, opt := range opts {
		opt(&options)
	}
	return &Context{
		binder:   binder,
		ordering: rdf.NewOrderingComparer(options.compare),
		logger:   options.logger,
	}
}

// Binder returns the solutions being evaluated.
func (ctx *Context) Binder() binding.Binder {
	return ctx.binder
}

// OrderingComparer returns the total order used by ORDER BY.
func (ctx *Context) OrderingComparer() *rdf.OrderingComparer {
	return ctx.ordering
}

// NodeComparer returns the comparer used for relational operators.
func (ctx *Context) NodeComparer() *rdf.NodeComparer {
	return ctx.ordering.NodeComparer()
}

// Logger returns the logger for evaluation problems.
func (ctx *Context) Logger() log.FieldLogger {
	return ctx.logger
}
