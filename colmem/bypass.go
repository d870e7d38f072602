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

package colmem

// SoftQuotaBypassingBufferAllocator wraps a parent BufferAllocator and
// adds bypassAmount to the effective soft quota reported to callers, so
// a single designated consumer (e.g. the Sort operator's materialization
// Table) can grow past the parent's soft limit by a fixed reserved
// amount without exceeding the parent's hard quota.
//
// This is deliberately expressed as an allocator combinator rather than
// a global tweak, per spec.md §9's design note on the soft-quota bypass.
type SoftQuotaBypassingBufferAllocator struct {
	parent       BufferAllocator
	bypassAmount int64
}

var _ BufferAllocator = (*SoftQuotaBypassingBufferAllocator)(nil)

// NewSoftQuotaBypassingBufferAllocator wraps parent, granting the
// wrapped consumer bypassAmount bytes of headroom above parent's soft
// quota. The hard quota is never widened.
func NewSoftQuotaBypassingBufferAllocator(parent BufferAllocator, bypassAmount int64) *SoftQuotaBypassingBufferAllocator {
	return &SoftQuotaBypassingBufferAllocator{parent: parent, bypassAmount: bypassAmount}
}

func (b *SoftQuotaBypassingBufferAllocator) Allocate(size int64) error {
	return b.parent.Allocate(size)
}

func (b *SoftQuotaBypassingBufferAllocator) Release(size int64) {
	b.parent.Release(size)
}

func (b *SoftQuotaBypassingBufferAllocator) Used() int64 { return b.parent.Used() }

// SoftQuota reports the parent's soft quota plus the bypass amount.
func (b *SoftQuotaBypassingBufferAllocator) SoftQuota() int64 {
	return b.parent.SoftQuota() + b.bypassAmount
}

func (b *SoftQuotaBypassingBufferAllocator) HardQuota() int64 { return b.parent.HardQuota() }
func (b *SoftQuotaBypassingBufferAllocator) Available() int64 { return b.parent.Available() }

func (b *SoftQuotaBypassingBufferAllocator) OverSoft() bool {
	return b.Used() > b.SoftQuota()
}
