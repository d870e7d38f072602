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

package colexecop

import (
	"sync/atomic"

	"github.com/colvecdb/engine/colexecerror"
)

// InterruptFlag is embedded by concrete Cursor implementations to give
// them thread-safe Interrupt() semantics without reimplementing the
// atomic bookkeeping at each call site.
type InterruptFlag struct {
	interrupted int32
}

// Interrupt marks the flag; safe to call concurrently with CheckInterrupt.
func (f *InterruptFlag) Interrupt() {
	atomic.StoreInt32(&f.interrupted, 1)
}

// IsInterrupted reports whether Interrupt has been called.
func (f *InterruptFlag) IsInterrupted() bool {
	return atomic.LoadInt32(&f.interrupted) == 1
}

// CheckInterrupt returns a Failure(INTERRUPTED) ResultView and true if
// the flag has been set, else a zero ResultView and false.
func (f *InterruptFlag) CheckInterrupt() (ResultView, bool) {
	if f.IsInterrupted() {
		return Failure(colexecerror.New(colexecerror.Interrupted, "cursor interrupted")), true
	}
	return ResultView{}, false
}

// PoisonState tracks whether a Cursor has already returned EOS or
// Failure, so subsequent calls can be made idempotent/rejecting per
// spec.md §4.3.
type PoisonState struct {
	done   bool
	failed bool
	err    error
}

// Done reports whether the cursor has reached a terminal EOS.
func (p *PoisonState) Done() bool { return p.done }

// Poisoned reports whether the cursor has failed.
func (p *PoisonState) Poisoned() bool { return p.failed }

// MarkEOS records that EOS has been reached.
func (p *PoisonState) MarkEOS() { p.done = true }

// MarkFailed records a Failure and its cause; subsequent calls should
// consult Poisoned()/LastError() rather than re-running fallible work.
func (p *PoisonState) MarkFailed(err error) {
	p.failed = true
	p.err = err
}

// LastError returns the recorded failure cause, if any.
func (p *PoisonState) LastError() error { return p.err }
