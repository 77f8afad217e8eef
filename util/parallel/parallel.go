// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package parallel runs independent tasks concurrently.
package parallel

import (
	"context"
	"sync"
)

// InvokeN calls 'call' with i=0, i=1, ..., i=n-1, running at most 'limit' of
// the calls at once. A limit of zero or less runs all 'n' at once. Calls are
// started in index order.
//
// The first error returned by a call cancels the context given to the other
// calls; calls that haven't started by then are skipped. InvokeN returns once
// every started call has returned. It returns the first error, or the parent
// context's error if calls were skipped because it was done.
func InvokeN(ctx context.Context, n, limit int, call func(ctx context.Context, i int) error) error {
	if limit <= 0 || limit > n {
		limit = n
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var (
		wg       sync.WaitGroup
		lock     sync.Mutex
		firstErr error
	)
	slots := make(chan struct{}, limit)
	started := 0
	for ; started < n; started++ {
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := call(ctx, i); err != nil {
				lock.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				lock.Unlock()
			}
			<-slots
		}(started)
	}
	wg.Wait()
	if firstErr == nil && started < n {
		return ctx.Err()
	}
	return firstErr
}
