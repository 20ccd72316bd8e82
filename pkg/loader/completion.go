/*
Copyright 2024 The svnbridge Authors

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

package loader

import (
	"container/list"
	"sync"
)

// completionQueue serializes fetch completions onto a single drain
// goroutine. BeginReadFile's contract lets the CVCS client invoke a
// fetch's completion callback from any goroutine it pleases, possibly
// before BeginReadFile has returned and while holding its own locks; push
// must never block
// that caller, so completions buffer on an unbounded list rather than a
// fixed-capacity channel. Exactly one goroutine ever calls run, giving
// handleCompletion the single-writer property spec.md §5 requires without
// needing a worker pool — the loader never runs more than one drain
// goroutine to begin with.
type completionQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    list.List
	closed bool
}

func newCompletionQueue() *completionQueue {
	q := &completionQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues res for run to process. Safe to call concurrently from
// any goroutine, including from inside run's own handle callback.
func (q *completionQueue) push(res *fetchResult) {
	q.mu.Lock()
	q.buf.PushBack(res)
	q.cond.Signal()
	q.mu.Unlock()
}

// close arms the drain-and-stop signal. After close, run returns once
// every item pushed before close was handled.
func (q *completionQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()
}

// run drains q on the calling goroutine, invoking handle for each pushed
// item in order, until close has been called and the buffer is empty.
func (q *completionQueue) run(handle func(*fetchResult)) {
	for {
		q.mu.Lock()
		for q.buf.Len() == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.buf.Len() == 0 {
			q.mu.Unlock()
			return
		}
		e := q.buf.Front()
		q.buf.Remove(e)
		q.mu.Unlock()
		handle(e.Value.(*fetchResult))
	}
}
