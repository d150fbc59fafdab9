// Package blockview implements the multi-resolution time-block cache behind
// an interactive waveform/coverage browser. As the visible time window pans
// and zooms, the cache quantizes the window onto a dyadic tiling of the time
// axis, reuses blocks it already holds, and asynchronously (re)fetches only
// what is missing. Fetch rounds are versioned per block so a superseded
// response can never overwrite a newer one.
//
// Components:
//   - BlockKey: deterministic (scale, index) quantization of a time window.
//   - Block: cached coverage spans and spectrogram tiles for one dyadic
//     interval, with fetch versioning and per-block error state.
//   - View: the controller owning the visible window, frequency band,
//     logical clock, bounded block cache and relevant-block selection.
//   - Gate: a logical data source (code set + per-kind extents), aggregated
//     across sources to auto-frame the initial view.
//   - channel.DataChannel: request/response RPC contract to the remote data
//     service; channel/httprpc speaks it over HTTP with a pluggable payload
//     codec (JSON, msgpack, CBOR).
//   - tilestore.Store: optional byte store for spectrogram images
//     (in-memory, BigCache, Ristretto, Redis).
//
// Usage:
//
//	ch, _ := httprpc.New(httprpc.Config{BaseURL: "http://localhost:2323/squirrel"})
//	v, _ := blockview.New(blockview.Options{Channel: ch})
//	_ = v.SetWindow(ctx, tmin, tmax)
//	if b := v.Relevant(); b != nil {
//	    render(b.Coverages(), b.Tiles())
//	}
package blockview
