// Package executor fans a batch of object transfers out across concurrent
// workers and joins on the aggregate outcome.
//
// Every started transfer runs to completion; the executor never tears down
// an in-flight network write, so a failing batch cannot leave objects whose
// write was aborted mid-stream.
package executor

import (
	"context"
	"sync"

	uperrors "github.com/grassyhq/uplink/errors"
	"github.com/grassyhq/uplink/internal/session"
)

// Item is one object to transfer: its filename identifies the negotiated
// slot, the payload is the raw bytes to send.
type Item struct {
	// Filename matches the item to its negotiated slot
	Filename string

	// ContentType is the value sent as Content-Type; empty leaves it unset
	ContentType string

	// Data is the object payload
	Data []byte
}

// TransferFunc performs a single object transfer to the slot URL.
type TransferFunc func(ctx context.Context, item Item, url string) error

// Executor transfers batch items concurrently with a bounded worker count.
// The zero concurrency falls back to the default of 3 parallel transfers.
type Executor struct {
	maxConcurrency int
	semaphore      chan struct{}
}

// New creates an executor with the specified concurrency limit.
func New(maxConcurrency int) *Executor {
	if maxConcurrency <= 0 {
		maxConcurrency = 3
	}
	return &Executor{
		maxConcurrency: maxConcurrency,
		semaphore:      make(chan struct{}, maxConcurrency),
	}
}

// Run transfers every item to its negotiated slot and waits for all of them.
// Errors are captured per item index; the aggregate result is the first
// error by index, which makes the outcome deterministic regardless of
// completion order. An item with no matching slot fails with
// MissingSlotError without blocking the other transfers.
func (e *Executor) Run(ctx context.Context, items []Item, slots []session.Slot, fn TransferFunc) error {
	if len(items) == 0 {
		return nil
	}

	urls := make(map[string]string, len(slots))
	for _, slot := range slots {
		urls[slot.Filename] = slot.URL
	}

	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		url, ok := urls[item.Filename]
		if !ok {
			errs[i] = &uperrors.MissingSlotError{Filename: item.Filename}
			continue
		}

		e.semaphore <- struct{}{}
		wg.Add(1)
		go func(i int, item Item, url string) {
			defer func() {
				<-e.semaphore
				wg.Done()
			}()
			if err := fn(ctx, item, url); err != nil {
				errs[i] = err
			}
		}(i, item, url)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// MaxConcurrency returns the worker bound the executor was created with.
func (e *Executor) MaxConcurrency() int {
	return e.maxConcurrency
}
