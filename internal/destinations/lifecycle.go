// Copyright 2026 Google LLC
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

package destinations

import (
	"sync"
	"sync/atomic"

	"github.com/alswang18/connector-x/internal/util"
)

type lifecycleState uint8

const (
	stateEmpty lifecycleState = iota
	stateAllocated
	statePartitioned
	stateFinalized
)

// Lifecycle enforces the one-way destination state machine. Destinations
// embed it and call the transition methods from Allocate, Partitions and
// Finalize. Writer closes may arrive from any worker goroutine.
type Lifecycle struct {
	mu          sync.Mutex
	state       lifecycleState
	openWriters atomic.Int64
}

func (l *Lifecycle) ToAllocated() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != stateEmpty {
		return util.NewConfigError("allocate", util.ErrAlreadyAllocated)
	}
	l.state = stateAllocated
	return nil
}

func (l *Lifecycle) ToPartitioned(nwriters int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case stateEmpty:
		return util.NewConfigError("partition", util.ErrNotAllocated)
	case statePartitioned, stateFinalized:
		return util.NewConfigError("partition", util.ErrAlreadyPartitioned)
	}
	l.state = statePartitioned
	l.openWriters.Store(int64(nwriters))
	return nil
}

// WriterClosed records one partition writer release. Idempotence is the
// writer's responsibility.
func (l *Lifecycle) WriterClosed() {
	l.openWriters.Add(-1)
}

// ToFinalized seals the destination. An allocated destination with no
// partitions finalizes directly; this is the empty-transfer path.
func (l *Lifecycle) ToFinalized() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case stateEmpty:
		return util.NewConfigError("finalize", util.ErrNotAllocated)
	case stateFinalized:
		return util.NewConfigError("finalize", util.ErrAlreadyFinalized)
	}
	if l.openWriters.Load() > 0 {
		return util.NewConfigError("finalize", util.ErrNotFinalized)
	}
	l.state = stateFinalized
	return nil
}

// Finalized reports whether the destination contents may be read back.
func (l *Lifecycle) Finalized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == stateFinalized
}
