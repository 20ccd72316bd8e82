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

// Package loader implements the Async Item Loader (spec.md §4.2): a
// bounded-memory producer/consumer pipeline that prefetches file content
// from the CVCS in depth-first tree order while a response generator
// consumes bytes at its own pace.
package loader

import (
	"context"
	"sync"
	"time"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/item"
)

// Loader is per-request state: one Loader per metadata tree being served.
// It is not safe to reuse across requests or call Start twice.
type Loader struct {
	client cvcs.Client
	cfg    Config
	root   *item.Item
	files  []*item.Item // precomputed depth-first file order

	// mu guards everything below and doubles as the condition variable's
	// lock; cond is signaled on every event a waiter might care about
	// (buffer space freed, in-flight slot freed, item loaded, cancel).
	// The spec's "process-wide edge-triggered event" and the producer's
	// two gates share this single instance rather than three separate
	// condition variables, matching spec.md §5's "single lock instance
	// that also hosts the condition-variable-like wait".
	mu        sync.Mutex
	cond      *sync.Cond
	cancelled bool
	inFlight  int
	handles   map[*item.Item]cvcs.ReadHandle

	completions *completionQueue
}

type fetchResult struct {
	item   *item.Item
	handle cvcs.ReadHandle
	err    error
}

// New builds a Loader over root, whose file items will be prefetched in
// depth-first order per item.Files. A zero Config.MaxInFlightRequests (and
// similar) is not filled in automatically; pass DefaultConfig() or a copy
// of it with overrides.
func New(client cvcs.Client, root *item.Item, cfg Config) *Loader {
	l := &Loader{
		client:  client,
		cfg:     cfg,
		root:    root,
		files:   item.Files(root),
		handles: make(map[*item.Item]cvcs.ReadHandle),
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Cancel arms the cooperative cancel flag and wakes every waiter. Safe to
// call concurrently and more than once.
func (l *Loader) Cancel() {
	l.mu.Lock()
	l.cancelled = true
	l.cond.Broadcast()
	l.mu.Unlock()
}

func (l *Loader) isCancelled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancelled
}

// Start runs the producer loop on the calling goroutine: depth-first over
// the tree's files, gating on buffer capacity and in-flight slot
// availability before beginning each fetch. It returns once every item has
// had a fetch started (or been skipped due to cancel/timeout) and every
// outstanding fetch has drained — never before.
//
// Completion bookkeeping (attaching bytes to an item, releasing the
// in-flight slot, broadcasting the wake) is serialized through a single
// completionQueue drain goroutine rather than running inline on whichever
// goroutine the CVCS client happens to invoke the completion callback
// from: this gives the "single-writer per item" guarantee spec.md §5
// requires without each Client implementation having to reason about it.
func (l *Loader) Start(ctx context.Context) error {
	prodDeadline := time.Now().Add(l.cfg.ProductionDeadline)

	l.completions = newCompletionQueue()
	drained := make(chan struct{})
	go func() {
		l.completions.run(l.handleCompletion)
		close(drained)
	}()

	var loopErr error
	for _, it := range l.files {
		if err := l.waitBufferGate(); err != nil {
			loopErr = err
			break
		}
		if err := l.waitInFlightGate(prodDeadline); err != nil {
			loopErr = err
			break
		}
		if l.isCancelled() {
			loopErr = ErrCancelled
			break
		}
		// Per-item fetch failures are trapped here (not raised to the
		// producer loop) so one bad fetch doesn't kill the whole
		// prefetch; the item simply never reaches data-loaded, per
		// spec.md §4.2's documented no-retry deficiency.
		_ = l.beginFetch(ctx, it)
	}

	l.mu.Lock()
	for l.inFlight > 0 {
		l.waitStepLocked(l.cfg.ConsumptionStepTimeout)
	}
	if loopErr == nil && l.cancelled {
		loopErr = ErrCancelled
	}
	l.mu.Unlock()

	l.completions.close()
	<-drained
	return loopErr
}

func (l *Loader) loadedUnconsumedBytesLocked() int64 {
	return item.LoadedUnconsumedBytes(l.root)
}

// waitBufferGate blocks until summed loaded-but-unconsumed bytes fall
// below MaxBufferedBytes, cancel fires, or consumption_deadline elapses.
func (l *Loader) waitBufferGate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	deadline := time.Now().Add(l.cfg.ConsumptionDeadline)
	for {
		if l.cancelled {
			return ErrCancelled
		}
		if l.loadedUnconsumedBytesLocked() < l.cfg.MaxBufferedBytes {
			return nil
		}
		now := time.Now()
		if !now.Before(deadline) {
			return ErrConsumptionTimeout
		}
		l.waitStepLocked(stepOf(l.cfg.ConsumptionStepTimeout, deadline.Sub(now)))
	}
}

// waitInFlightGate blocks until in-flight fetch count falls below
// MaxInFlightRequests, cancel fires, or the overall production deadline
// elapses.
func (l *Loader) waitInFlightGate(prodDeadline time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		if l.cancelled {
			return ErrCancelled
		}
		if l.inFlight < l.cfg.MaxInFlightRequests {
			return nil
		}
		now := time.Now()
		if !now.Before(prodDeadline) {
			return ErrProductionTimeout
		}
		l.waitStepLocked(stepOf(l.cfg.ConsumptionStepTimeout, prodDeadline.Sub(now)))
	}
}

func stepOf(step, remaining time.Duration) time.Duration {
	if remaining < step {
		return remaining
	}
	return step
}

// waitStepLocked waits on cond for at most step, rearming via a timer so a
// missed broadcast cannot wedge a gate past its own deadline. l.mu must be
// held; it is released for the duration of the wait and reacquired after,
// per sync.Cond.Wait.
func (l *Loader) waitStepLocked(step time.Duration) {
	if step <= 0 {
		return
	}
	t := time.AfterFunc(step, func() {
		l.mu.Lock()
		l.cond.Broadcast()
		l.mu.Unlock()
	})
	l.cond.Wait()
	t.Stop()
}

// beginFetch starts an async fetch for it. The association is registered
// under l.mu after BeginReadFile returns its handle. The cvcs.Client
// contract (cvcs.Client.BeginReadFile doc) forbids invoking the completion
// callback synchronously from within BeginReadFile, but the callback may
// still fire on another goroutine before the handle is registered;
// handleCompletion takes the handle from the pushed fetchResult, not from
// l.handles, so it does not depend on this ordering.
func (l *Loader) beginFetch(ctx context.Context, it *item.Item) error {
	l.mu.Lock()
	l.inFlight++
	l.mu.Unlock()

	h, err := l.client.BeginReadFile(ctx, it, func(h cvcs.ReadHandle, ferr error) {
		l.completions.push(&fetchResult{item: it, handle: h, err: ferr})
	})
	if err != nil {
		l.mu.Lock()
		l.inFlight--
		l.cond.Broadcast()
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	l.handles[it] = h
	l.mu.Unlock()
	return nil
}

func (l *Loader) handleCompletion(res *fetchResult) {
	data, md5Hex, endErr := l.client.EndReadFile(res.handle)
	err := res.err
	if err == nil {
		err = endErr
	}

	l.mu.Lock()
	delete(l.handles, res.item)
	if err == nil {
		res.item.SetContent(data, md5Hex)
	}
	l.inFlight--
	l.cond.Broadcast()
	l.mu.Unlock()
}

// TryRob is the consumer-side pull: it blocks until item's data-loaded
// flag is true or timeout elapses, atomically moving the bytes out on
// success and waking the producer's buffer-capacity gate. A timeout or an
// observed cancel both report gotData=false with no error, matching
// spec.md §4.2's "consumers observing cancel receive no data (empty
// string) rather than an exception".
func (l *Loader) TryRob(it *item.Item, timeout time.Duration) (data []byte, md5Hex string, gotData bool) {
	deadline := time.Now().Add(timeout)
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		if d, h, ok := it.TakeContent(); ok {
			l.cond.Broadcast()
			return d, h, true
		}
		if l.cancelled {
			return nil, "", false
		}
		now := time.Now()
		if !now.Before(deadline) {
			return nil, "", false
		}
		l.waitStepLocked(stepOf(l.cfg.ConsumptionStepTimeout, deadline.Sub(now)))
	}
}
