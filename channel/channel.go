// Package channel defines the request/response contract between the block
// cache and the remote data service, plus the wire record shapes. The cache
// depends on the service only through DataChannel; transports live in
// subpackages (see channel/httprpc).
package channel

import "context"

// Endpoint names understood by the data service.
const (
	EndpointCodes        = "get_codes"
	EndpointTimeSpan     = "get_time_span"
	EndpointCoverage     = "get_coverage"
	EndpointSpectrograms = "get_spectrograms"
)

// Kind selects a coverage category.
type Kind string

const (
	KindWaveform Kind = "waveform"
	KindChannel  Kind = "channel"
	KindResponse Kind = "response"
)

// DataChannel issues one request and decodes the response into result.
// Implementations must be safe for concurrent use. A nil result discards the
// response body.
type DataChannel interface {
	Request(ctx context.Context, endpoint string, params, result any) error
}

// KindParams parameterizes get_codes and get_time_span.
type KindParams struct {
	Kind Kind `json:"kind" msgpack:"kind"`
}

// TimeSpanResult carries wire time strings; an empty string means the
// service has no data of that kind.
type TimeSpanResult struct {
	TMin string `json:"tmin" msgpack:"tmin"`
	TMax string `json:"tmax" msgpack:"tmax"`
}

// CoverageParams scopes a get_coverage request. Times are wire time strings.
type CoverageParams struct {
	TMin string `json:"tmin" msgpack:"tmin"`
	TMax string `json:"tmax" msgpack:"tmax"`
	Kind Kind   `json:"kind" msgpack:"kind"`
}

// CoverageRecord is one raw availability record as served.
type CoverageRecord struct {
	Kind  Kind   `json:"kind" msgpack:"kind"`
	Codes string `json:"codes" msgpack:"codes"`
	TMin  string `json:"tmin" msgpack:"tmin"`
	TMax  string `json:"tmax" msgpack:"tmax"`
}

// SpectrogramParams scopes a get_spectrograms request. TMin/TMax are wire
// time strings; the frequency bounds are plain Hz.
type SpectrogramParams struct {
	TMin string  `json:"tmin" msgpack:"tmin"`
	TMax string  `json:"tmax" msgpack:"tmax"`
	FMin float64 `json:"fmin" msgpack:"fmin"`
	FMax float64 `json:"fmax" msgpack:"fmax"`
}

// SpectrogramRecord is one raw spectrogram tile as served. Image is opaque
// to the cache.
type SpectrogramRecord struct {
	Codes string `json:"codes" msgpack:"codes"`
	TMin  string `json:"tmin" msgpack:"tmin"`
	TMax  string `json:"tmax" msgpack:"tmax"`
	Image []byte `json:"image" msgpack:"image"`
}
