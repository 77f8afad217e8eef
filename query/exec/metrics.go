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
	metricsutil "github.com/ebay/sparqlcore/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type execMetrics struct {
	groupsTotal               prometheus.Counter
	groupErrorBindingsTotal   prometheus.Counter
	orderEvalErrorsTotal      prometheus.Counter
	groupApplyDurationSeconds prometheus.Summary
}

var metrics execMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = execMetrics{
		groupsTotal: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "sparqlcore",
			Subsystem: "exec",
			Name:      "groups_total",
			Help:      `The number of groups produced by GROUP BY, counting each level of nested grouping.`,
		}),
		groupErrorBindingsTotal: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "sparqlcore",
			Subsystem: "exec",
			Name:      "group_error_bindings_total",
			Help: `The number of solutions placed in an error group because the
GROUP BY expression failed to evaluate for them.`,
		}),
		orderEvalErrorsTotal: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "sparqlcore",
			Subsystem: "exec",
			Name:      "order_eval_errors_total",
			Help: `The number of times an ORDER BY expression failed to evaluate
during a comparison.`,
		}),
		groupApplyDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "sparqlcore",
			Subsystem:  "exec",
			Name:       "group_apply_duration_seconds",
			Help:       `The time it takes to group a set of solutions through an entire GROUP BY chain.`,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001},
		}),
	}
}
