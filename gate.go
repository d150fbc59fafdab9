package blockview

import (
	"context"
	"sort"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/wiretime"
)

// Gate describes one logical data source: its code set and its per-kind
// time extents. Gates are independent of the block cache; the view
// aggregates them to learn the overall browsable range.
type Gate struct {
	Codes []string
	Spans map[channel.Kind]*TimeWindow
}

// LoadGate queries a gate's codes and extents over the channel: the code set
// for waveform data plus the waveform and channel time spans, issued
// sequentially. Span upper bounds are clamped to "now" so the view never
// frames into the future. A kind with no data maps to a nil span.
func LoadGate(ctx context.Context, chn channel.DataChannel) (*Gate, error) {
	g := &Gate{Spans: make(map[channel.Kind]*TimeWindow)}

	if err := chn.Request(ctx, channel.EndpointCodes,
		channel.KindParams{Kind: channel.KindWaveform}, &g.Codes); err != nil {
		return nil, err
	}

	for _, kind := range []channel.Kind{channel.KindWaveform, channel.KindChannel} {
		var res channel.TimeSpanResult
		if err := chn.Request(ctx, channel.EndpointTimeSpan,
			channel.KindParams{Kind: kind}, &res); err != nil {
			return nil, err
		}
		span, err := parseSpan(res)
		if err != nil {
			return nil, err
		}
		g.Spans[kind] = span
	}
	return g, nil
}

func parseSpan(res channel.TimeSpanResult) (*TimeWindow, error) {
	if res.TMin == "" || res.TMax == "" {
		return nil, nil
	}
	tmin, err := wiretime.Parse(res.TMin)
	if err != nil {
		return nil, err
	}
	tmax, err := wiretime.Parse(res.TMax)
	if err != nil {
		return nil, err
	}
	return &TimeWindow{TMin: tmin, TMax: wiretime.ClampToNow(tmax)}, nil
}

// Span returns the gate's extent for kind, or nil when unknown.
func (g *Gate) Span(kind channel.Kind) *TimeWindow {
	if g == nil || g.Spans == nil {
		return nil
	}
	return g.Spans[kind]
}

// unionExtent folds the gates' extents for kind into one covering window.
// Returns nil when no gate knows an extent of that kind.
func unionExtent(gates []*Gate, kind channel.Kind) *TimeWindow {
	var out *TimeWindow
	for _, g := range gates {
		s := g.Span(kind)
		if s == nil {
			continue
		}
		if out == nil {
			w := *s
			out = &w
			continue
		}
		if s.TMin < out.TMin {
			out.TMin = s.TMin
		}
		if s.TMax > out.TMax {
			out.TMax = s.TMax
		}
	}
	return out
}

// unionCodes returns the sorted union of all gates' code sets.
func unionCodes(gates []*Gate) []string {
	seen := make(map[string]struct{})
	for _, g := range gates {
		for _, c := range g.Codes {
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
