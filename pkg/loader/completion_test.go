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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionQueuePreservesPushOrder(t *testing.T) {
	q := newCompletionQueue()
	items := []*fetchResult{{err: nil}, {err: nil}, {err: nil}}
	for _, res := range items {
		q.push(res)
	}

	var handled []*fetchResult
	done := make(chan struct{})
	go func() {
		q.run(func(res *fetchResult) { handled = append(handled, res) })
		close(done)
	}()

	q.close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after close")
	}

	require.Len(t, handled, 3)
	assert.Same(t, items[0], handled[0])
	assert.Same(t, items[1], handled[1])
	assert.Same(t, items[2], handled[2])
}

func TestCompletionQueuePushNeverBlocksCaller(t *testing.T) {
	q := newCompletionQueue()
	// No run goroutine is draining yet: push must still return immediately
	// rather than block the (possibly CVCS-client-owned) calling goroutine.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			q.push(&fetchResult{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push blocked with no drain goroutine running")
	}
}

func TestCompletionQueueCloseDrainsPendingBeforeReturning(t *testing.T) {
	q := newCompletionQueue()
	q.push(&fetchResult{})
	q.push(&fetchResult{})
	q.close()

	var count int
	done := make(chan struct{})
	go func() {
		q.run(func(res *fetchResult) { count++ })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return")
	}
	assert.Equal(t, 2, count)
}
