// Copyright 2016 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package colmem implements the buffer allocator hierarchy of spec.md
// §4.1: a soft/hard quota allocator, a bypass decorator granting a
// consumer reserved headroom, and the accounting primitives operators
// use to stay within memory_quota.
//
// Grounded on pkg/sql/mon.BoundAccount's tracked-allocation pattern,
// generalized into an interface so the bypass trick can be expressed as
// a wrapper rather than a monitor-specific special case.
package colmem

import (
	"sync"

	"github.com/colvecdb/engine/colexecerror"
)

// BufferAllocator is the capability to reserve and release byte budget.
// Allocations up to SoftQuota() always succeed; allocations between
// SoftQuota() and HardQuota() may succeed but the caller should treat
// this as "over soft" and prefer to spill; allocations beyond HardQuota()
// fail with a MEMORY_EXCEEDED CodedError.
type BufferAllocator interface {
	// Allocate reserves size bytes, returning an error if doing so would
	// exceed the hard quota.
	Allocate(size int64) error
	// Release gives back size bytes previously reserved with Allocate.
	Release(size int64)
	// Used returns bytes currently reserved.
	Used() int64
	// SoftQuota returns the preferred maximum.
	SoftQuota() int64
	// HardQuota returns the absolute maximum.
	HardQuota() int64
	// Available returns HardQuota() - Used(), i.e. how much more this
	// allocator could grant before failing.
	Available() int64
	// OverSoft reports whether Used() has crossed SoftQuota().
	OverSoft() bool
}

// MemoryLimit is a BufferAllocator that enforces its own quota pair and
// tracks usage locally; it does not wrap or consult any other
// allocator, so it serves only as a root allocator. colsort.Sort uses
// one as the parent that its SoftQuotaBypassingBufferAllocator wraps.
type MemoryLimit struct {
	mu        sync.Mutex
	softQuota int64
	hardQuota int64
	used      int64
}

var _ BufferAllocator = (*MemoryLimit)(nil)

// NewMemoryLimit creates a MemoryLimit with the given soft and hard
// quotas, in bytes. hardQuota must be >= softQuota.
func NewMemoryLimit(softQuota, hardQuota int64) *MemoryLimit {
	if hardQuota < softQuota {
		hardQuota = softQuota
	}
	return &MemoryLimit{softQuota: softQuota, hardQuota: hardQuota}
}

func (m *MemoryLimit) Allocate(size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.used+size > m.hardQuota {
		return colexecerror.Newf(colexecerror.MemoryExceeded,
			"allocation of %d bytes would exceed hard quota %d (used %d)", size, m.hardQuota, m.used)
	}
	m.used += size
	return nil
}

func (m *MemoryLimit) Release(size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used -= size
	if m.used < 0 {
		m.used = 0
	}
}

func (m *MemoryLimit) Used() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

func (m *MemoryLimit) SoftQuota() int64 { return m.softQuota }
func (m *MemoryLimit) HardQuota() int64 { return m.hardQuota }

func (m *MemoryLimit) Available() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	avail := m.hardQuota - m.used
	if avail < 0 {
		return 0
	}
	return avail
}

func (m *MemoryLimit) OverSoft() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used > m.softQuota
}
