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

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvecdb/engine/colexecerror"
)

func TestMemoryLimitAllocateRelease(t *testing.T) {
	m := NewMemoryLimit(100, 200)
	require.NoError(t, m.Allocate(50))
	require.Equal(t, int64(50), m.Used())
	require.False(t, m.OverSoft())

	require.NoError(t, m.Allocate(60))
	require.True(t, m.OverSoft())
	require.Equal(t, int64(110), m.Used())

	m.Release(10)
	require.Equal(t, int64(100), m.Used())
}

func TestMemoryLimitHardQuotaExceeded(t *testing.T) {
	m := NewMemoryLimit(50, 100)
	err := m.Allocate(150)
	require.Error(t, err)
	code, ok := colexecerror.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, colexecerror.MemoryExceeded, code)
	require.Equal(t, int64(0), m.Used(), "failed allocation must not be charged")
}

func TestMemoryLimitReleaseClampsAtZero(t *testing.T) {
	m := NewMemoryLimit(100, 100)
	m.Release(10)
	require.Equal(t, int64(0), m.Used())
}

func TestMemoryLimitHardQuotaFloorsAtSoft(t *testing.T) {
	m := NewMemoryLimit(100, 10)
	require.Equal(t, int64(100), m.HardQuota())
}

func TestSoftQuotaBypassingBufferAllocator(t *testing.T) {
	parent := NewMemoryLimit(100, 500)
	bypass := NewSoftQuotaBypassingBufferAllocator(parent, 200)

	require.Equal(t, int64(300), bypass.SoftQuota())
	require.Equal(t, int64(500), bypass.HardQuota())

	require.NoError(t, bypass.Allocate(250))
	require.False(t, bypass.OverSoft(), "250 used is under the bypassed soft quota of 300")
	require.True(t, parent.OverSoft(), "the underlying parent's own soft quota of 100 is still exceeded")

	err := bypass.Allocate(300)
	require.Error(t, err, "550 total would exceed the shared hard quota of 500")
}
