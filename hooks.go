package blockview

// Hooks lightweight callbacks for high-signal cache events. They replace the
// reactive dependency tracking of the original UI: downstream consumers
// subscribe here to learn when a block's data or the cache shape changed.
// Implementations MUST be cheap and non-blocking; the cache calls them from
// fetch completions and navigation paths. Wrap with hooks/async to offload.
type Hooks interface {
	// A fetch round completed and its results were installed.
	BlockUpdated(key BlockKey)

	// A block was removed to keep the cache within MaxBlocks.
	BlockEvicted(key BlockKey)

	// A fetch round failed; the error is also recorded on the block.
	FetchFailed(key BlockKey, err error)

	// A fetch round completed after being superseded; its results were
	// dropped. Not an error condition.
	StaleResultDropped(key BlockKey)

	// The view auto-framed itself to the aggregated gate extent.
	ViewFramed(w TimeWindow)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) BlockUpdated(BlockKey)        {}
func (NopHooks) BlockEvicted(BlockKey)        {}
func (NopHooks) FetchFailed(BlockKey, error)  {}
func (NopHooks) StaleResultDropped(BlockKey)  {}
func (NopHooks) ViewFramed(TimeWindow)        {}
