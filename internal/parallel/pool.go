// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package parallel provides the worker pool used to score candidate shapes.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines that run batches of indexed work.
//
// Each batch is split into contiguous chunks. Workers claim chunks from a
// shared atomic cursor, so a slow chunk does not hold up the others and
// every index is processed exactly once.
//
// Thread safety: WorkerPool is safe for concurrent use, but batches submitted
// concurrently share the same workers.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// jobs carries batches to idle workers.
	jobs chan *batch

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// batch is one ForEach call.
type batch struct {
	n     int
	chunk int
	next  atomic.Int64
	fn    func(i int)
	wg    sync.WaitGroup
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		jobs:    make(chan *batch, workers),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

// worker runs batches until the pool is closed.
func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case b := <-p.jobs:
			b.run()
		}
	}
}

// run processes chunks of b until none are left. Each finished chunk is
// counted on b.wg, so the batch completes no matter which goroutines ran it.
func (b *batch) run() {
	for {
		start := int(b.next.Add(int64(b.chunk))) - b.chunk
		if start >= b.n {
			return
		}
		end := min(start+b.chunk, b.n)
		for i := start; i < end; i++ {
			b.fn(i)
		}
		b.wg.Done()
	}
}

// ForEach calls fn(i) for every i in [0, n) on the pool's workers and waits
// for all calls to return. fn must be safe to call concurrently for
// different indices.
//
// If the pool is closed, or has a single worker, the calls run on the
// calling goroutine.
func (p *WorkerPool) ForEach(n int, fn func(i int)) {
	if n <= 0 || fn == nil {
		return
	}
	if p == nil || p.workers == 1 || !p.running.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	// About four chunks per worker balances uneven candidate sizes.
	chunk := max(n/(p.workers*4), 1)
	b := &batch{n: n, chunk: chunk, fn: fn}

	chunks := (n + chunk - 1) / chunk
	b.wg.Add(chunks)
	for range min(p.workers, chunks) - 1 {
		select {
		case p.jobs <- b:
		default:
			// Workers are busy with another batch; the caller picks up the slack.
		}
	}

	// The caller works too, so every chunk is claimed even if no worker
	// ever sees the batch.
	b.run()
	b.wg.Wait()
}

// Close stops the workers. Batches already running complete first.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
