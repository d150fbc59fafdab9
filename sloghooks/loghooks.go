// Package sloghooks logs cache hook events through log/slog, with sampling
// for the events that fire on every navigation.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/openseis/blockview"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	UpdatedEvery uint64
	StaleEvery   uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	updatedCtr atomic.Uint64
	staleCtr   atomic.Uint64
}

var _ blockview.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) BlockUpdated(key blockview.BlockKey) {
	if h.l == nil || !sample(h.opts.UpdatedEvery, &h.updatedCtr) {
		return
	}
	h.l.Debug("blockview.block_updated", "key", key.String())
}

func (h *Hooks) BlockEvicted(key blockview.BlockKey) {
	if h.l == nil {
		return
	}
	h.l.Debug("blockview.block_evicted", "key", key.String())
}

func (h *Hooks) FetchFailed(key blockview.BlockKey, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("blockview.fetch_failed",
		"key", key.String(),
		"err", err)
}

func (h *Hooks) StaleResultDropped(key blockview.BlockKey) {
	if h.l == nil || !sample(h.opts.StaleEvery, &h.staleCtr) {
		return
	}
	h.l.Debug("blockview.stale_result_dropped", "key", key.String())
}

func (h *Hooks) ViewFramed(w blockview.TimeWindow) {
	if h.l == nil {
		return
	}
	h.l.Info("blockview.view_framed",
		"tmin", w.TMin,
		"tmax", w.TMax)
}
