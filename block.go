package blockview

import (
	"context"
	"sync"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/internal/ids"
	"github.com/openseis/blockview/tilestore"
	"github.com/openseis/blockview/wiretime"
)

// wildcardMarker is appended to raw code strings during normalization, so a
// coverage span's code set reads as a trailing-wildcard pattern.
const wildcardMarker = ".*"

// CoverageSpan is a normalized data-availability record for one code set
// over a time range.
type CoverageSpan struct {
	ID      string
	Kind    channel.Kind
	CodesID string
	TMin    float64
	TMax    float64
}

// SpectrogramTile is a normalized spectrogram image tile. Image is nil when
// the payload has been offloaded to the tile store; fetch it back through
// Block.TileImage.
type SpectrogramTile struct {
	ID      string
	CodesID string
	TMin    float64
	TMax    float64
	Image   []byte
}

// Block owns the cached coverage and spectrogram data for one dyadic time
// interval. Blocks are created by the cache on first miss and mutated only
// by their own Update and by Touch. All methods are safe for concurrent use.
type Block struct {
	key BlockKey
	win TimeWindow

	chn   channel.DataChannel
	tiles tilestore.Store
	log   Logger
	hooks Hooks

	mu           sync.Mutex
	coverage     []CoverageSpan
	spectrograms []SpectrogramTile
	band         FrequencyBand
	lastTouched  int64
	fetchVersion uint64
	lastErr      error
}

func newBlock(key BlockKey, chn channel.DataChannel, tiles tilestore.Store, log Logger, hooks Hooks) *Block {
	return &Block{
		key:   key,
		win:   key.Window(),
		chn:   chn,
		tiles: tiles,
		log:   log,
		hooks: hooks,
	}
}

func (b *Block) Key() BlockKey      { return b.key }
func (b *Block) Window() TimeWindow { return b.win }

// Overlaps is the strict interval overlap test used for relevance filtering.
// It is independent of key computation; a block at a coarser scale can still
// overlap a much smaller window.
func (b *Block) Overlaps(tmin, tmax float64) bool {
	return b.win.Overlaps(tmin, tmax)
}

// Ready reports whether both the coverage and spectrogram fetches have
// completed at least once. A block with a recorded fetch error and no prior
// successful round is not ready.
func (b *Block) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.coverage != nil && b.spectrograms != nil
}

// Err returns the error of the last completed fetch round, or nil. A
// non-nil error does not clear previously installed data; the block retries
// on its next Update.
func (b *Block) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Touch records the logical clock value of the access. Side effect only.
func (b *Block) Touch(clock int64) {
	b.mu.Lock()
	b.lastTouched = clock
	b.mu.Unlock()
}

// LastTouched returns the logical clock stamp of the most recent access.
func (b *Block) LastTouched() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastTouched
}

// Coverages returns the installed coverage spans. Nil until the first fetch
// round completes; never nil afterwards, even when empty. The returned slice
// is never mutated after install.
func (b *Block) Coverages() []CoverageSpan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.coverage
}

// Tiles returns the installed spectrogram tiles. Same nil semantics as
// Coverages.
func (b *Block) Tiles() []SpectrogramTile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spectrograms
}

// Band returns the frequency band the installed data was fetched at, so
// consumers can tell stale-band data apart from current.
func (b *Block) Band() FrequencyBand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.band
}

// TileImage resolves a tile's image payload, reading through the tile store
// when the payload was offloaded. ok=false means the store dropped it.
func (b *Block) TileImage(ctx context.Context, t SpectrogramTile) ([]byte, bool, error) {
	if t.Image != nil {
		return t.Image, true, nil
	}
	if b.tiles == nil {
		return nil, false, nil
	}
	return b.tiles.Get(ctx, t.ID)
}

// Update runs one fetch round: a coverage request (kind waveform) and a
// spectrogram request at the given band, both scoped to the block's own
// extent. The two requests run concurrently; results install atomically
// only if no newer Update superseded this round (last-update-wins). A
// superseded round is dropped silently. In-flight requests are never
// cancelled, only ignored once stale.
func (b *Block) Update(ctx context.Context, band FrequencyBand) error {
	b.mu.Lock()
	b.fetchVersion++
	version := b.fetchVersion
	b.mu.Unlock()

	var (
		cov     []CoverageSpan
		tiles   []SpectrogramTile
		covErr  error
		specErr error
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cov, covErr = b.fetchCoverage(ctx)
	}()
	go func() {
		defer wg.Done()
		tiles, specErr = b.fetchSpectrograms(ctx, band)
	}()
	wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if version != b.fetchVersion {
		b.log.Debug("fetch round superseded, dropping results", Fields{"key": b.key.String(), "version": version})
		b.hooks.StaleResultDropped(b.key)
		return nil
	}
	if covErr != nil || specErr != nil {
		err := &FetchError{Key: b.key, CoverageErr: covErr, SpectrogramErr: specErr}
		b.lastErr = err
		b.log.Warn("fetch round failed", Fields{"key": b.key.String(), "err": err})
		b.hooks.FetchFailed(b.key, err)
		return err
	}
	b.coverage = cov
	b.spectrograms = tiles
	b.band = band
	b.lastErr = nil
	b.hooks.BlockUpdated(b.key)
	return nil
}

func (b *Block) fetchCoverage(ctx context.Context) ([]CoverageSpan, error) {
	params := channel.CoverageParams{
		TMin: wiretime.Format(b.win.TMin),
		TMax: wiretime.Format(b.win.TMax),
		Kind: channel.KindWaveform,
	}
	var records []channel.CoverageRecord
	if err := b.chn.Request(ctx, channel.EndpointCoverage, params, &records); err != nil {
		return nil, err
	}
	out := make([]CoverageSpan, 0, len(records))
	for _, r := range records {
		tmin, err := wiretime.Parse(r.TMin)
		if err != nil {
			return nil, err
		}
		tmax, err := wiretime.Parse(r.TMax)
		if err != nil {
			return nil, err
		}
		out = append(out, CoverageSpan{
			ID:      ids.Composite(string(r.Kind), r.TMin, r.TMax, r.Codes),
			Kind:    r.Kind,
			CodesID: r.Codes + wildcardMarker,
			TMin:    tmin,
			TMax:    tmax,
		})
	}
	return out, nil
}

func (b *Block) fetchSpectrograms(ctx context.Context, band FrequencyBand) ([]SpectrogramTile, error) {
	params := channel.SpectrogramParams{
		TMin: wiretime.Format(b.win.TMin),
		TMax: wiretime.Format(b.win.TMax),
		FMin: band.FMin,
		FMax: band.FMax,
	}
	var records []channel.SpectrogramRecord
	if err := b.chn.Request(ctx, channel.EndpointSpectrograms, params, &records); err != nil {
		return nil, err
	}
	out := make([]SpectrogramTile, 0, len(records))
	for _, r := range records {
		tmin, err := wiretime.Parse(r.TMin)
		if err != nil {
			return nil, err
		}
		tmax, err := wiretime.Parse(r.TMax)
		if err != nil {
			return nil, err
		}
		tile := SpectrogramTile{
			ID:      ids.Composite(r.TMin, r.TMax, r.Codes),
			CodesID: r.Codes + wildcardMarker,
			TMin:    tmin,
			TMax:    tmax,
			Image:   r.Image,
		}
		if b.tiles != nil && len(r.Image) > 0 {
			if err := b.tiles.Put(ctx, tile.ID, r.Image); err != nil {
				// keep the payload inline rather than lose it
				b.log.Warn("tile store put failed", Fields{"tile": tile.ID, "err": err})
			} else {
				tile.Image = nil
			}
		}
		out = append(out, tile)
	}
	return out, nil
}
