// Package service serves the data endpoints the block cache consumes:
// get_codes, get_time_span, get_coverage and get_spectrograms, as POST
// requests under /squirrel/. Payload encoding is negotiated per request via
// Content-Type against the registered codecs; JSON is always available.
package service

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/codec"
	"github.com/openseis/blockview/wiretime"
)

// Span is a data extent in seconds since epoch.
type Span struct {
	TMin float64
	TMax float64
}

// CoverageEntry is one availability record as known to the source.
type CoverageEntry struct {
	Kind  channel.Kind
	Codes string
	TMin  float64
	TMax  float64
}

// SpectrogramEntry is one spectrogram tile as known to the source.
type SpectrogramEntry struct {
	Codes string
	TMin  float64
	TMax  float64
	Image []byte
}

// Source supplies the data behind the endpoints. Implementations must be
// safe for concurrent use.
type Source interface {
	Codes(ctx context.Context, kind channel.Kind) ([]string, error)
	// TimeSpan returns nil when the source has no data of that kind.
	TimeSpan(ctx context.Context, kind channel.Kind) (*Span, error)
	Coverage(ctx context.Context, kind channel.Kind, tmin, tmax float64) ([]CoverageEntry, error)
	Spectrograms(ctx context.Context, tmin, tmax, fmin, fmax float64) ([]SpectrogramEntry, error)
}

type Options struct {
	// Codecs accepted in addition to JSON, keyed off their ContentType.
	Codecs []codec.Codec
	// Debug enables gin debug mode; release otherwise.
	Debug bool
}

type server struct {
	src    Source
	codecs map[string]codec.Codec
}

// NewRouter builds the gin engine serving the RPC endpoints.
func NewRouter(src Source, opts Options) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &server{
		src:    src,
		codecs: map[string]codec.Codec{},
	}
	js := codec.JSON{}
	s.codecs[js.ContentType()] = js
	for _, c := range opts.Codecs {
		s.codecs[c.ContentType()] = c
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/squirrel/:method", s.dispatch)
	return r
}

func (s *server) codecFor(c *gin.Context) codec.Codec {
	ct := c.ContentType()
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if cd, ok := s.codecs[ct]; ok {
		return cd
	}
	return s.codecs["application/json"]
}

func (s *server) dispatch(c *gin.Context) {
	cd := s.codecFor(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "read request: %v", err)
		return
	}

	var result any
	switch c.Param("method") {
	case channel.EndpointCodes:
		result, err = s.codes(c, cd, body)
	case channel.EndpointTimeSpan:
		result, err = s.timeSpan(c, cd, body)
	case channel.EndpointCoverage:
		result, err = s.coverage(c, cd, body)
	case channel.EndpointSpectrograms:
		result, err = s.spectrograms(c, cd, body)
	default:
		c.String(http.StatusBadRequest, "invalid method: %s", c.Param("method"))
		return
	}
	if err != nil {
		c.String(http.StatusBadRequest, "%v", err)
		return
	}

	raw, err := cd.Marshal(result)
	if err != nil {
		c.String(http.StatusInternalServerError, "encode response: %v", err)
		return
	}
	c.Data(http.StatusOK, cd.ContentType(), raw)
}

func (s *server) codes(c *gin.Context, cd codec.Codec, body []byte) (any, error) {
	var params channel.KindParams
	if err := cd.Unmarshal(body, &params); err != nil {
		return nil, err
	}
	codes, err := s.src.Codes(c.Request.Context(), params.Kind)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (s *server) timeSpan(c *gin.Context, cd codec.Codec, body []byte) (any, error) {
	var params channel.KindParams
	if err := cd.Unmarshal(body, &params); err != nil {
		return nil, err
	}
	span, err := s.src.TimeSpan(c.Request.Context(), params.Kind)
	if err != nil {
		return nil, err
	}
	if span == nil {
		return channel.TimeSpanResult{}, nil
	}
	return channel.TimeSpanResult{
		TMin: wiretime.Format(span.TMin),
		TMax: wiretime.Format(span.TMax),
	}, nil
}

func (s *server) coverage(c *gin.Context, cd codec.Codec, body []byte) (any, error) {
	var params channel.CoverageParams
	if err := cd.Unmarshal(body, &params); err != nil {
		return nil, err
	}
	tmin, err := wiretime.Parse(params.TMin)
	if err != nil {
		return nil, err
	}
	tmax, err := wiretime.Parse(params.TMax)
	if err != nil {
		return nil, err
	}
	entries, err := s.src.Coverage(c.Request.Context(), params.Kind, tmin, tmax)
	if err != nil {
		return nil, err
	}
	records := make([]channel.CoverageRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, channel.CoverageRecord{
			Kind:  e.Kind,
			Codes: e.Codes,
			TMin:  wiretime.Format(e.TMin),
			TMax:  wiretime.Format(e.TMax),
		})
	}
	return records, nil
}

func (s *server) spectrograms(c *gin.Context, cd codec.Codec, body []byte) (any, error) {
	var params channel.SpectrogramParams
	if err := cd.Unmarshal(body, &params); err != nil {
		return nil, err
	}
	tmin, err := wiretime.Parse(params.TMin)
	if err != nil {
		return nil, err
	}
	tmax, err := wiretime.Parse(params.TMax)
	if err != nil {
		return nil, err
	}
	entries, err := s.src.Spectrograms(c.Request.Context(), tmin, tmax, params.FMin, params.FMax)
	if err != nil {
		return nil, err
	}
	records := make([]channel.SpectrogramRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, channel.SpectrogramRecord{
			Codes: e.Codes,
			TMin:  wiretime.Format(e.TMin),
			TMax:  wiretime.Format(e.TMax),
			Image: e.Image,
		})
	}
	return records, nil
}
