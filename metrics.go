/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package quantum

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records container activity. A nil *Metrics records nothing.
type Metrics struct {
	nodesBuilt         prometheus.Counter
	referencesResolved prometheus.Counter
	lookups            *prometheus.CounterVec
	clears             prometheus.Counter
	buildDuration      prometheus.Histogram
}

// NewMetrics creates the container metrics and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		nodesBuilt: f.NewCounter(prometheus.CounterOpts{
			Namespace: "quantum",
			Subsystem: "container",
			Name:      "nodes_built_total",
			Help:      "Total root nodes built by the container",
		}),
		referencesResolved: f.NewCounter(prometheus.CounterOpts{
			Namespace: "quantum",
			Subsystem: "container",
			Name:      "references_resolved_total",
			Help:      "Total object references wired to a target node",
		}),
		// Labels: result (hit, miss)
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quantum",
			Subsystem: "container",
			Name:      "lookups_total",
			Help:      "Total node lookups by object identity",
		}, []string{"result"}),
		clears: f.NewCounter(prometheus.CounterOpts{
			Namespace: "quantum",
			Subsystem: "container",
			Name:      "clears_total",
			Help:      "Total container clears",
		}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quantum",
			Subsystem: "container",
			Name:      "build_duration_seconds",
			Help:      "Time to build one root node tree",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

func (m *Metrics) built(start time.Time) {
	if m == nil {
		return
	}
	m.nodesBuilt.Inc()
	m.buildDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) resolved() {
	if m != nil {
		m.referencesResolved.Inc()
	}
}

func (m *Metrics) lookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.lookups.WithLabelValues("hit").Inc()
	} else {
		m.lookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) cleared() {
	if m != nil {
		m.clears.Inc()
	}
}
