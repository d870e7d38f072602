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

// Package randutil provides seeded randomness for tests, reprinting the
// chosen seed to stderr so a failure is reproducible, matching the
// teacher's pkg/util/randutil shape without pulling in its dependency
// on the server-side entropy source.
package randutil

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"
)

var once sync.Once

// NewTestRand returns a seeded *rand.Rand and its seed. Only the first
// call in a process prints its seed to stderr; every call returns the
// seed so a failing test run can be reproduced with NewTestRandWithSeed.
func NewTestRand() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	once.Do(func() {
		fmt.Fprintf(os.Stderr, "randutil: seed %d\n", seed)
	})
	return rand.New(rand.NewSource(seed)), seed
}

// NewTestRandWithSeed returns a *rand.Rand seeded deterministically, for
// reproducing a failure reported by NewTestRand.
func NewTestRandWithSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandString returns a random alphanumeric string of length n.
func RandString(r *rand.Rand, n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(buf)
}
