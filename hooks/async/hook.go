// Package asynchook decouples hook consumers from the cache's hot paths: a
// bounded queue absorbs events and a small worker pool delivers them. Events
// are dropped, never blocked on, when the queue is full.
package asynchook

import (
	"sync"

	"github.com/openseis/blockview"
)

type Hooks struct {
	inner blockview.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ blockview.Hooks = (*Hooks)(nil)

func New(inner blockview.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) BlockUpdated(k blockview.BlockKey) { h.try(func() { h.inner.BlockUpdated(k) }) }
func (h *Hooks) BlockEvicted(k blockview.BlockKey) { h.try(func() { h.inner.BlockEvicted(k) }) }
func (h *Hooks) FetchFailed(k blockview.BlockKey, err error) {
	h.try(func() { h.inner.FetchFailed(k, err) })
}
func (h *Hooks) StaleResultDropped(k blockview.BlockKey) {
	h.try(func() { h.inner.StaleResultDropped(k) })
}
func (h *Hooks) ViewFramed(w blockview.TimeWindow) { h.try(func() { h.inner.ViewFramed(w) }) }
