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

import "errors"

// ErrCancelled is returned by start when cancel() was observed before
// start returned, including while it was draining in-flight fetches.
var ErrCancelled = errors.New("loader: cancelled")

// ErrProductionTimeout is returned by start when production_deadline, or
// the in-flight-slot gate's share of it, elapsed.
var ErrProductionTimeout = errors.New("loader: production deadline exceeded")

// ErrConsumptionTimeout is returned by start when the buffer-capacity gate
// waited past consumption_deadline — a stuck or absent consumer.
var ErrConsumptionTimeout = errors.New("loader: consumption deadline exceeded")
