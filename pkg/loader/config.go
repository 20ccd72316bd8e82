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

import "time"

// Config tunes the Async Item Loader (spec.md §4.2). New uses the values
// as given and does not fill in zero-value fields; start from
// DefaultConfig and override fields as needed.
type Config struct {
	// MaxInFlightRequests bounds concurrent CVCS fetches. The CVCS download
	// primitive buffers each response fully in memory, so unbounded
	// parallelism risks memory exhaustion.
	MaxInFlightRequests int

	// MaxBufferedBytes bounds the sum of loaded-but-unconsumed file bytes
	// attached to the tree at any instant.
	MaxBufferedBytes int64

	// ProductionDeadline is measured from when start runs and is checked
	// only while the producer waits at the in-flight-slot gate; waits at
	// the buffer-capacity gate and the final drain do not check it.
	ProductionDeadline time.Duration

	// ConsumptionDeadline bounds how long the producer may wait at the
	// buffer-capacity gate for the consumer to free space, snapshotted
	// each time the producer begins waiting.
	ConsumptionDeadline time.Duration

	// ConsumptionStepTimeout is the per-iteration wait step used by both
	// gates and by try_rob, so a stuck wakeup source cannot wedge a wait
	// past its overall deadline undetected.
	ConsumptionStepTimeout time.Duration
}

// DefaultConfig mirrors spec.md §4.2's recommended values for a 64-bit host.
func DefaultConfig() Config {
	return Config{
		MaxInFlightRequests:    3,
		MaxBufferedBytes:       100 << 20,
		ProductionDeadline:     4 * time.Hour,
		ConsumptionDeadline:    4 * time.Hour,
		ConsumptionStepTimeout: 30 * time.Minute,
	}
}
