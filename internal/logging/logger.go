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

// Package logging provides the engine-wide ILogger contract and the
// logger-queue sink (component D-4) that drains it from a single
// goroutine, so that filesystem and object-store workers never block
// on log I/O.
package logging

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
)

type ILogger interface {
	ShouldLog(level LogLevel) bool
	Log(level LogLevel, msg string)
}

// queueLogger is the single sink for the logger queue (spec.md §4.D).
// Producers (task executors, the worker pool) never write directly to the underlying writer; they
// push onto lines and a lone drain goroutine serializes them.
type queueLogger struct {
	runID             uuid.UUID
	minimumLevelToLog LogLevel
	out               *log.Logger
	lines             chan string
	wg                sync.WaitGroup
}

// NewQueueLogger starts the drain goroutine and returns a logger ready
// to accept concurrent Log calls. Call Close to flush and stop it.
func NewQueueLogger(w io.Writer, minimumLevelToLog LogLevel) *queueLogger {
	ql := &queueLogger{
		runID:             uuid.New(),
		minimumLevelToLog: minimumLevelToLog,
		out:               log.New(w, "", log.LstdFlags|log.LUTC),
		lines:             make(chan string, 1000),
	}
	ql.wg.Add(1)
	go ql.drain()
	return ql
}

func (ql *queueLogger) drain() {
	defer ql.wg.Done()
	for line := range ql.lines {
		ql.out.Println(line)
	}
}

func (ql *queueLogger) ShouldLog(level LogLevel) bool {
	if level == ELogLevel.None() {
		return false
	}
	return level <= ql.minimumLevelToLog
}

func (ql *queueLogger) Log(level LogLevel, msg string) {
	if !ql.ShouldLog(level) {
		return
	}
	prefix := ""
	if level <= ELogLevel.Error() {
		prefix = fmt.Sprintf("%s: ", level)
	}
	ql.lines <- fmt.Sprintf("[%s] %s%s", ql.runID, prefix, msg)
}

// Close stops accepting new lines and waits for the drain goroutine to
// flush everything already queued.
func (ql *queueLogger) Close() {
	close(ql.lines)
	ql.wg.Wait()
}

// RunID is the per-run correlation id prefixed to every log line.
// Status aggregation (internal/status) does not record it.
func (ql *queueLogger) RunID() uuid.UUID {
	return ql.runID
}
