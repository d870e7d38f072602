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

// Package colexecop defines the pull-based Cursor protocol of spec.md
// §4.3: a capability interface {Next, Schema, Interrupt,
// ApplyToChildren} grounded on the teacher's Operator interface
// (Init/Next(ctx) Batch), extended with the barrier/interrupt/failure
// states the teacher's early prototype doesn't yet model.
package colexecop

import (
	"context"

	"github.com/colvecdb/engine/coldata"
)

// State is one of the four Cursor states from spec.md §3.
type State int

const (
	HasMore State = iota
	EOS
	WaitingOnBarrier
	Failed
)

// ResultKind tags which variant of ResultView is populated.
type ResultKind int

const (
	KindRows ResultKind = iota
	KindEOS
	KindWaitingOnBarrier
	KindFailure
)

// ResultView is the discriminated result of Cursor.Next, per spec.md
// §4.3: one of {Rows(view), EOS, WaitingOnBarrier, Failure(exception)}.
type ResultView struct {
	Kind  ResultKind
	View  coldata.View
	Err   error
}

func Rows(v coldata.View) ResultView { return ResultView{Kind: KindRows, View: v} }
func EOSResult() ResultView          { return ResultView{Kind: KindEOS} }
func Barrier() ResultView            { return ResultView{Kind: KindWaitingOnBarrier} }
func Failure(err error) ResultView   { return ResultView{Kind: KindFailure, Err: err} }

// Cursor is a pull-based iterator producing successive Views. Cursors
// own their child Cursor exclusively (spec.md §3, Ownership).
//
// Contract (spec.md §4.3):
//   - the producer owns the returned view's storage until the next call;
//   - after EOS, further calls return EOS;
//   - after Failure, the cursor is poisoned and no further calls are
//     permitted;
//   - WaitingOnBarrier is legal only if IsWaitingOnBarrierSupported();
//   - Interrupt is safe to call concurrently with Next and causes the
//     next Next to return Failure(INTERRUPTED).
type Cursor interface {
	// Next pulls up to maxRows rows. maxRows <= 0 means "no limit"; a
	// Rows result never exceeds maxRows when maxRows > 0.
	Next(ctx context.Context, maxRows int) ResultView
	Schema() coldata.TupleSchema
	Interrupt()
	IsWaitingOnBarrierSupported() bool
	// ApplyToChildren invokes fn on each direct child Cursor, letting a
	// caller walk or rewrite the cursor tree without a shared visitor
	// interface per child concrete type.
	ApplyToChildren(fn func(Cursor))
}

// Operation is the planning-time representation of an operator: a
// constructor for a Cursor. Operations own their child Operation graph
// exclusively (a tree, no sharing), per spec.md §3.
type Operation interface {
	CreateCursor() (Cursor, error)
	Schema() coldata.TupleSchema
}
