// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chain

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	requestStatusOk    = "ok"
	requestStatusError = "error"
)

// Metrics holds the node request instrumentation of a Client
type Metrics struct {
	// Counts of node requests
	requests *prometheus.CounterVec

	// Latencies of node requests
	latencies *prometheus.HistogramVec
}

// NewMetrics creates the request metrics and registers them with the
// default registry. Creating them more than once reuses the registered collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stakeopt_chain_requests",
				Help: "How many node requests occur, partitioned by method and status.",
			},
			[]string{"method", "status"},
		),
		latencies: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "stakeopt_chain_request_latencies",
				Help: "How long node requests take, partitioned by method.",
			},
			[]string{"method"},
		),
	}
	m.requests = registerOnce(m.requests).(*prometheus.CounterVec)
	m.latencies = registerOnce(m.latencies).(*prometheus.HistogramVec)
	return m
}

// Requests returns the request counter for the method and status
func (m *Metrics) Requests(method string, status string) prometheus.Counter {
	return m.requests.WithLabelValues(method, status)
}

// Latency starts a latency timer for the method
func (m *Metrics) Latency(method string) *prometheus.Timer {
	return prometheus.NewTimer(m.latencies.WithLabelValues(method))
}

func (m *Metrics) observe(method string, err error) {
	status := requestStatusOk
	if err != nil {
		status = requestStatusError
	}
	m.Requests(method, status).Inc()
}

// registerOnce registers the collector, or returns the already registered one
func registerOnce(collector prometheus.Collector) prometheus.Collector {
	if err := prometheus.Register(collector); err != nil {
		are := &prometheus.AlreadyRegisteredError{}
		if errors.As(err, are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return collector
}
