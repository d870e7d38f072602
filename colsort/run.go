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
	"bufio"
	"context"
	"io"
	"os"

	"github.com/colvecdb/engine/coldata"
	"github.com/colvecdb/engine/colexecerror"
	"github.com/colvecdb/engine/colexecop"
)

// RunWriter serializes a single sorted run to a temporary file, one page
// of at most coldata.BatchSize rows at a time, per spec.md §4.6.2 step 2.
type RunWriter struct {
	file *os.File
	w    *bufio.Writer
	done bool
}

// CreateRun creates a new spill file under dir (dir == "" uses the
// default temp directory) and writes schema as its header.
func CreateRun(dir string, schema coldata.TupleSchema) (*RunWriter, error) {
	f, err := os.CreateTemp(dir, "colsort-run-*.blk")
	if err != nil {
		return nil, colexecerror.Wrap(colexecerror.TempFileCreationError, err)
	}
	w := bufio.NewWriter(f)
	if err := writeSchemaHeader(w, schema); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, colexecerror.Wrap(colexecerror.TempFileCreationError, err)
	}
	return &RunWriter{file: f, w: w}, nil
}

// WriteView pages view into coldata.BatchSize-sized blocks and appends
// them to the run.
func (rw *RunWriter) WriteView(view coldata.View) error {
	n := view.RowCount()
	for start := 0; start < n; start += coldata.BatchSize {
		end := start + coldata.BatchSize
		if end > n {
			end = n
		}
		if err := writeBlock(rw.w, view.Slice(start, end)); err != nil {
			return err
		}
	}
	return nil
}

// Close finalizes the run with a zero-row terminator block and flushes
// it to disk. The run's file remains on disk for later reading via
// OpenRun; the caller is responsible for eventually removing it.
func (rw *RunWriter) Close() error {
	if rw.done {
		return nil
	}
	rw.done = true
	if err := writeUint32(rw.w, 0); err != nil {
		rw.file.Close()
		return err
	}
	if err := rw.w.Flush(); err != nil {
		rw.file.Close()
		return err
	}
	return rw.file.Close()
}

// Name returns the path of the underlying spill file.
func (rw *RunWriter) Name() string { return rw.file.Name() }

// RunCursor reads back a spilled run as a colexecop.Cursor, buffering
// one page at a time. It never reports WaitingOnBarrier: a local spill
// file is always immediately readable.
type RunCursor struct {
	path    string
	file    *os.File
	r       *bufio.Reader
	schema  coldata.TupleSchema
	pending *coldata.Block
	pos     int
	poison  colexecop.PoisonState
	flag    colexecop.InterruptFlag
}

// OpenRun opens a previously-written run for reading.
func OpenRun(path string) (*RunCursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, colexecerror.Wrap(colexecerror.TempFileCreationError, err)
	}
	r := bufio.NewReader(f)
	schema, err := readSchemaHeader(r)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &RunCursor{path: path, file: f, r: r, schema: schema}, nil
}

func (c *RunCursor) Schema() coldata.TupleSchema { return c.schema }

func (c *RunCursor) Interrupt() { c.flag.Interrupt() }

func (c *RunCursor) IsWaitingOnBarrierSupported() bool { return false }

func (c *RunCursor) ApplyToChildren(func(colexecop.Cursor)) {}

// Next implements colexecop.Cursor.
func (c *RunCursor) Next(ctx context.Context, maxRows int) colexecop.ResultView {
	if rv, stop := c.flag.CheckInterrupt(); stop {
		c.poison.MarkFailed(rv.Err)
		return rv
	}
	if c.poison.Poisoned() {
		return colexecop.Failure(c.poison.LastError())
	}
	if c.poison.Done() {
		return colexecop.EOSResult()
	}
	if c.pending == nil || c.pos >= c.pending.Length() {
		block, err := readBlock(c.r, c.schema)
		if err == io.EOF {
			c.poison.MarkEOS()
			c.file.Close()
			return colexecop.EOSResult()
		}
		if err != nil {
			c.poison.MarkFailed(err)
			c.file.Close()
			return colexecop.Failure(err)
		}
		c.pending = block
		c.pos = 0
	}
	end := c.pos + maxRows
	if maxRows <= 0 || end > c.pending.Length() {
		end = c.pending.Length()
	}
	view := c.pending.View().Slice(c.pos, end)
	c.pos = end
	return colexecop.Rows(view)
}

// Remove closes and deletes the underlying spill file. Safe to call more
// than once.
func (c *RunCursor) Remove() {
	c.file.Close()
	os.Remove(c.path)
}
