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

// Package leaktest checks that a test does not leave goroutines
// running past its end, grounded on the teacher's pkg/util/leaktest.
// Cursor trees that spill (colsort's Merger and RunCursor) don't spawn
// goroutines directly, but tests exercising errgroup-based run
// materialization do, so this is exercised there.
package leaktest

import (
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"
)

var ignoredGoroutines = []string{
	"testing.Main(",
	"testing.tRunner(",
	"testing.(*T).Run(",
	"created by runtime.gc",
	"signal.signal_recv",
	"sigterm.handler",
	"runtime_mcall",
}

func interestingGoroutines() []string {
	buf := make([]byte, 2<<20)
	buf = buf[:runtime.Stack(buf, true)]
	var stacks []string
	for _, g := range strings.Split(string(buf), "\n\n") {
		sl := strings.SplitN(g, "\n", 2)
		if len(sl) != 2 {
			continue
		}
		stack := strings.TrimSpace(sl[1])
		if stack == "" {
			continue
		}
		skip := false
		for _, ig := range ignoredGoroutines {
			if strings.Contains(stack, ig) {
				skip = true
				break
			}
		}
		if !skip {
			stacks = append(stacks, stack)
		}
	}
	sort.Strings(stacks)
	return stacks
}

// AfterTest returns a func to be called (usually via defer) at the end
// of a test, verifying no unexpected goroutines are still running.
func AfterTest(t testing.TB) func() {
	before := interestingGoroutines()
	return func() {
		var leaked []string
		deadline := time.Now().Add(1 * time.Second)
		for {
			leaked = diff(before, interestingGoroutines())
			if len(leaked) == 0 || time.Now().After(deadline) {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		for _, g := range leaked {
			t.Errorf("leaktest: leaked goroutine: %s", g)
		}
	}
}

func diff(before, after []string) []string {
	beforeSet := make(map[string]bool, len(before))
	for _, s := range before {
		beforeSet[s] = true
	}
	var out []string
	for _, s := range after {
		if !beforeSet[s] {
			out = append(out, s)
		}
	}
	return out
}
