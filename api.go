package blockview

import (
	"fmt"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/tilestore"
)

const (
	// DefaultBlockFactor over-provisions block extents relative to the
	// requested window, so small pans stay inside the same block.
	DefaultBlockFactor = 4.0

	// DefaultMaxBlocks bounds the block cache; least recently touched
	// blocks are evicted beyond it.
	DefaultMaxBlocks = 64

	// DefaultFramePadding is the margin added per side when auto-framing
	// the view to the aggregated gate extent.
	DefaultFramePadding = 0.025
)

// Options tune the view and its block cache. Only Channel is required;
// others have sensible defaults.
type Options struct {
	// Required
	Channel channel.DataChannel

	BlockFactor  float64         // 0 => 4
	MaxBlocks    int             // 0 => 64; <0 disables eviction
	FramePadding float64         // 0 => 0.025
	Band         FrequencyBand   // initial spectrogram band
	Tiles        tilestore.Store // optional spectrogram image offload
	Logger       Logger          // if nil, NopLogger is used
	Hooks        Hooks           // if nil, NopHooks is used

	// Spawn launches a block's async fetch round. Defaults to `go f()`;
	// tests may run f inline for determinism.
	Spawn func(func())
}

// New constructs a View over the given channel.
func New(opts Options) (*View, error) {
	if opts.Channel == nil {
		return nil, fmt.Errorf("blockview: channel is required")
	}

	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})

	maxBlocks := opts.MaxBlocks
	switch {
	case maxBlocks == 0:
		maxBlocks = DefaultMaxBlocks
	case maxBlocks < 0:
		maxBlocks = 0 // unbounded
	}

	v := &View{
		chn:         opts.Channel,
		log:         log,
		hooks:       hooks,
		blockFactor: coalesce(opts.BlockFactor, DefaultBlockFactor),
		framePad:    coalesce(opts.FramePadding, DefaultFramePadding),
		band:        opts.Band,
	}
	v.cache = newBlockCache(opts.Channel, opts.Tiles, maxBlocks, log, hooks)
	v.spawn = opts.Spawn
	if v.spawn == nil {
		v.spawn = func(f func()) { go f() }
	}
	return v, nil
}
