// Copyright 2018 The Cockroach Authors.
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

package colsort

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecerror"
	"github.com/colvecdb/engine/colexecop"
	"github.com/colvecdb/engine/colmem"
	"github.com/colvecdb/engine/colproj"
)

// sortOperation is spec.md §4.6/§6's Sort(sort_order, result_projector?,
// memory_quota, child). It is a blocking operator: no output row is
// produced until child reaches EOS, per the state machine documented on
// sortCursor.
type sortOperation struct {
	child       colexecop.Operation
	order       SortOrder
	projector   *colproj.SingleSourceProjector // nil means pass child's schema through unchanged
	memoryQuota int64
}

// Sort builds a Sort Operation over child. memoryQuota bounds the
// in-memory materialization table; half of it is the hard quota of the
// table's allocator, leaving room for the transient doubling of
// Table.TryAppend's growth policy.
func Sort(order SortOrder, projector *colproj.SingleSourceProjector, memoryQuota int64, child colexecop.Operation) colexecop.Operation {
	return &sortOperation{child: child, order: order, projector: projector, memoryQuota: memoryQuota}
}

func (s *sortOperation) Schema() coldata.TupleSchema {
	if s.projector == nil {
		return s.child.Schema()
	}
	bound, err := s.projector.Bind(s.child.Schema())
	if err != nil {
		panic(err)
	}
	return bound.Schema()
}

func (s *sortOperation) CreateCursor() (colexecop.Cursor, error) {
	child, err := s.child.CreateCursor()
	if err != nil {
		return nil, err
	}
	var bound *colproj.BoundSingleSourceProjector
	if s.projector != nil {
		bound, err = s.projector.Bind(child.Schema())
		if err != nil {
			return nil, err
		}
	}
	half := s.memoryQuota / 2
	if half < 1 {
		half = 1
	}
	// The table sits behind a soft-quota bypass so it gets a private
	// slice of the quota invisible to sibling consumers of the parent
	// MemoryLimit, per spec.md §4.6.2/§9: the hard quota never widens,
	// only the reported soft quota does.
	parent := colmem.NewMemoryLimit(half, half)
	allocator := colmem.NewSoftQuotaBypassingBufferAllocator(parent, s.memoryQuota/4)
	table, err := NewTable(child.Schema(), coldata.BatchSize, allocator)
	if err != nil {
		return nil, err
	}
	return &sortCursor{
		child:     child,
		order:     s.order,
		table:     table,
		allocator: allocator,
		projector: bound,
		outSchema: s.Schema(),
	}, nil
}

// sortCursor implements spec.md §6's Sort state machine:
//
//	INIT -> DRAINING -> MERGING -> EOS
//	           |            ^
//	           v            |
//	   WaitingOnBarrier -----
//	     (any state) -> Failed / Interrupted
//
// DRAINING pulls the child to exhaustion, buffering into an in-memory
// Table and spilling sorted runs to disk when the Table's allocator
// refuses further growth. Once the child reaches EOS, finalize picks
// MERGING (spilled runs exist, merged with the final in-memory table as
// an extra sorted cursor) or a direct in-memory replay (no runs ever
// spilled).
type sortCursor struct {
	child     colexecop.Cursor
	order     SortOrder
	table     *Table
	allocator colmem.BufferAllocator
	projector *colproj.BoundSingleSourceProjector
	outSchema coldata.TupleSchema

	drained      bool
	source       colexecop.Cursor
	spilledPaths []string
	openRuns     []*RunCursor

	poison colexecop.PoisonState
	flag   colexecop.InterruptFlag
}

func (c *sortCursor) Schema() coldata.TupleSchema { return c.outSchema }

func (c *sortCursor) Interrupt() {
	c.flag.Interrupt()
	c.child.Interrupt()
	if c.source != nil {
		c.source.Interrupt()
	}
}

func (c *sortCursor) IsWaitingOnBarrierSupported() bool { return true }

func (c *sortCursor) ApplyToChildren(fn func(colexecop.Cursor)) { fn(c.child) }

func (c *sortCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
	if rv, stop := c.flag.CheckInterrupt(); stop {
		c.poison.MarkFailed(rv.Err)
		c.cleanupRuns()
		return rv
	}
	if c.poison.Poisoned() {
		return colexecop.Failure(c.poison.LastError())
	}
	if c.poison.Done() {
		return colexecop.EOSResult()
	}
	if !c.drained {
		rv := c.drain(ctx)
		if rv.Kind == colexecop.KindWaitingOnBarrier {
			return rv
		}
		if rv.Kind == colexecop.KindFailure {
			c.cleanupRuns()
			return rv
		}
		// zero-value ResultView: draining finished, c.source is now set.
	}
	rv := c.source.Next(ctx, maxRows)
	switch rv.Kind {
	case colexecop.KindRows:
		if c.projector != nil {
			rv = colexecop.Rows(c.projector.Apply(rv.View))
		}
	case colexecop.KindEOS:
		c.poison.MarkEOS()
		c.cleanupRuns()
	case colexecop.KindFailure:
		c.poison.MarkFailed(rv.Err)
		c.cleanupRuns()
	}
	return rv
}

// drain pulls child to EOS, accumulating into c.table and spilling when
// the allocator refuses growth. Returns a zero-value ResultView once
// finalize has picked a source; otherwise returns the WaitingOnBarrier
// or Failure result that should be propagated as-is.
func (c *sortCursor) drain(ctx context.Context) colexecop.ResultView {
	for {
		rv := c.child.Next(ctx, coldata.BatchSize)
		switch rv.Kind {
		case colexecop.KindRows:
			ok, err := c.table.TryAppend(rv.View)
			if err != nil {
				c.poison.MarkFailed(err)
				return colexecop.Failure(err)
			}
			if ok {
				continue
			}
			if err := c.spillTable(); err != nil {
				c.poison.MarkFailed(err)
				return colexecop.Failure(err)
			}
			ok, err = c.table.TryAppend(rv.View)
			if err != nil {
				c.poison.MarkFailed(err)
				return colexecop.Failure(err)
			}
			if !ok {
				err := colexecerror.Newf(colexecerror.MemoryExceeded,
					"a single batch of %d rows exceeds the sort memory quota", rv.View.RowCount())
				c.poison.MarkFailed(err)
				return colexecop.Failure(err)
			}
		case colexecop.KindEOS:
			return c.finalize()
		case colexecop.KindWaitingOnBarrier:
			return rv
		case colexecop.KindFailure:
			c.poison.MarkFailed(rv.Err)
			return rv
		}
	}
}

func (c *sortCursor) spillTable() error {
	if c.table.RowCount() == 0 {
		return nil
	}
	perm, err := SortPermutation(c.table.View(), c.order)
	if err != nil {
		return err
	}
	sortedView := ApplyPermutation(c.table.View(), perm)
	rw, err := CreateRun("", c.table.Schema())
	if err != nil {
		return err
	}
	if err := rw.WriteView(sortedView); err != nil {
		rw.Close()
		return err
	}
	if err := rw.Close(); err != nil {
		return err
	}
	c.spilledPaths = append(c.spilledPaths, rw.Name())
	c.table.Clear()
	return nil
}

func (c *sortCursor) finalize() colexecop.ResultView {
	perm, err := SortPermutation(c.table.View(), c.order)
	if err != nil {
		c.poison.MarkFailed(err)
		return colexecop.Failure(err)
	}
	sortedView := ApplyPermutation(c.table.View(), perm)

	if len(c.spilledPaths) == 0 {
		c.source = newMemViewCursor(sortedView)
		c.drained = true
		return colexecop.ResultView{}
	}

	// Opening the spilled run files is independent, blocking I/O per
	// path; fan it out so a merge over many runs isn't gated on opening
	// them one at a time. The merge itself, started below, stays on the
	// caller's goroutine — only this one-time setup step runs concurrently.
	runs := make([]*RunCursor, len(c.spilledPaths))
	var g errgroup.Group
	for i, p := range c.spilledPaths {
		i, p := i, p
		g.Go(func() error {
			rc, err := OpenRun(p)
			if err != nil {
				return err
			}
			runs[i] = rc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for i, rc := range runs {
			if rc != nil {
				rc.Remove()
			} else {
				os.Remove(c.spilledPaths[i])
			}
		}
		c.spilledPaths = nil
		c.poison.MarkFailed(err)
		return colexecop.Failure(err)
	}

	cursors := make([]colexecop.Cursor, 0, len(runs)+1)
	for _, rc := range runs {
		c.openRuns = append(c.openRuns, rc)
		cursors = append(cursors, rc)
	}
	// Every spilled path is now owned by an open RunCursor in c.openRuns,
	// which cleanupRuns already removes; drop the raw paths so a later
	// cleanupRuns doesn't try to remove them a second time.
	c.spilledPaths = nil
	if sortedView.RowCount() > 0 {
		cursors = append(cursors, newMemViewCursor(sortedView))
	}
	merger := NewMerger(cursors, c.order)
	c.source = newMergeCursor(c.table.Schema(), merger)
	c.drained = true
	return colexecop.ResultView{}
}

// cleanupRuns deletes every temporary spill file this cursor still owns:
// already-opened runs (post-finalize) via RunCursor.Remove, and any run
// written by spillTable but never opened because draining failed, was
// interrupted, or hit a batch-too-large error before reaching finalize.
func (c *sortCursor) cleanupRuns() {
	for _, rc := range c.openRuns {
		rc.Remove()
	}
	c.openRuns = nil
	for _, p := range c.spilledPaths {
		os.Remove(p)
	}
	c.spilledPaths = nil
}
