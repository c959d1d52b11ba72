// Copyright © Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package status implements the status queue's single sink (spec.md
// §4.D, component D-3): it drains taskengine.StatusMessage values and
// republishes running totals as prometheus/client_golang metrics, the
// metrics library the pack's cuemby-warren repo depends on.
package status

import (
	"context"

	"github.com/datamover/engine/internal/queues"
	"github.com/datamover/engine/internal/taskengine"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	filesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datamover_files_total",
			Help: "Total files processed by a put/get/del batch, by outcome",
		},
		[]string{"outcome"},
	)

	failedBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datamover_failed_bytes_total",
			Help: "Total size in bytes of files that failed to transfer",
		},
	)

	batchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datamover_batches_total",
			Help: "Total StatusMessages consumed from the status queue",
		},
	)
)

func init() {
	prometheus.MustRegister(filesTotal, failedBytesTotal, batchesTotal)
}

// Run drains q until it is closed and empty, folding each
// StatusMessage into the package's Prometheus counters. This is the
// status queue's single sink (spec.md §4.D component D-3); only one
// goroutine should call Run for a given engine instance.
func Run(ctx context.Context, q *queues.Queue[taskengine.StatusMessage]) {
	for {
		msg, ok := q.Pop(ctx)
		if !ok {
			return
		}
		record(msg)
	}
}

func record(msg taskengine.StatusMessage) {
	batchesTotal.Inc()
	filesTotal.WithLabelValues("success").Add(float64(msg.Success))
	filesTotal.WithLabelValues("failure").Add(float64(msg.Failure))
	if msg.Size > 0 {
		failedBytesTotal.Add(float64(msg.Size))
	}
}
