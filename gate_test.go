package blockview

import (
	"context"
	"errors"
	"testing"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/wiretime"
)

func TestLoadGate(t *testing.T) {
	ctx := context.Background()
	f := newFakeChannel()
	f.codes = []string{"XX.STA01..HHZ", "XX.STA02..HHZ"}
	f.spans[channel.KindWaveform] = channel.TimeSpanResult{
		TMin: wiretime.Format(100),
		TMax: wiretime.Format(900),
	}
	f.spans[channel.KindChannel] = channel.TimeSpanResult{
		TMin: wiretime.Format(50),
		TMax: wiretime.Format(1000),
	}

	g, err := LoadGate(ctx, f)
	if err != nil {
		t.Fatalf("LoadGate: %v", err)
	}
	if len(g.Codes) != 2 {
		t.Fatalf("expected 2 codes, got %v", g.Codes)
	}
	if s := g.Span(channel.KindWaveform); s == nil || s.TMin != 100 || s.TMax != 900 {
		t.Fatalf("waveform span wrong: %v", s)
	}
	if s := g.Span(channel.KindChannel); s == nil || s.TMin != 50 || s.TMax != 1000 {
		t.Fatalf("channel span wrong: %v", s)
	}
	if g.Span(channel.KindResponse) != nil {
		t.Fatalf("unqueried kind must be nil")
	}

	// One codes request, then one time-span request per kind, in order.
	want := []string{
		channel.EndpointCodes,
		channel.EndpointTimeSpan,
		channel.EndpointTimeSpan,
	}
	got := f.requestLog()
	if len(got) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// TestLoadGateClampsToNow: a reported upper bound in the future is capped at
// the current time.
func TestLoadGateClampsToNow(t *testing.T) {
	ctx := context.Background()
	f := newFakeChannel()
	future := 4e9 // well past 2090
	f.spans[channel.KindWaveform] = channel.TimeSpanResult{
		TMin: wiretime.Format(100),
		TMax: wiretime.Format(future),
	}

	g, err := LoadGate(ctx, f)
	if err != nil {
		t.Fatalf("LoadGate: %v", err)
	}
	s := g.Span(channel.KindWaveform)
	if s == nil {
		t.Fatalf("waveform span expected")
	}
	if s.TMax >= future {
		t.Fatalf("future bound must be clamped, got %g", s.TMax)
	}
	if s.TMax > wiretime.Now() {
		t.Fatalf("clamped bound is still in the future: %g", s.TMax)
	}
	if s.TMin != 100 {
		t.Fatalf("lower bound must pass through, got %g", s.TMin)
	}
}

// TestLoadGateEmptySpan: an empty time-span result means the kind has no
// data and maps to a nil span, not an error.
func TestLoadGateEmptySpan(t *testing.T) {
	ctx := context.Background()
	f := newFakeChannel()

	g, err := LoadGate(ctx, f)
	if err != nil {
		t.Fatalf("LoadGate: %v", err)
	}
	if g.Span(channel.KindWaveform) != nil || g.Span(channel.KindChannel) != nil {
		t.Fatalf("empty results must map to nil spans: %+v", g.Spans)
	}
}

func TestLoadGatePropagatesError(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("unreachable")
	if _, err := LoadGate(ctx, failingChannel{err: wantErr}); !errors.Is(err, wantErr) {
		t.Fatalf("expected channel error to surface, got %v", err)
	}
}

type failingChannel struct{ err error }

func (f failingChannel) Request(context.Context, string, any, any) error { return f.err }

func TestUnionExtent(t *testing.T) {
	g1 := &Gate{Spans: map[channel.Kind]*TimeWindow{
		channel.KindWaveform: {TMin: 100, TMax: 500},
	}}
	g2 := &Gate{Spans: map[channel.Kind]*TimeWindow{
		channel.KindWaveform: {TMin: 300, TMax: 900},
	}}
	g3 := &Gate{} // knows nothing

	if got := unionExtent([]*Gate{g1, g2, g3}, channel.KindWaveform); got == nil || got.TMin != 100 || got.TMax != 900 {
		t.Fatalf("union expected [100, 900), got %v", got)
	}
	if got := unionExtent([]*Gate{g3}, channel.KindWaveform); got != nil {
		t.Fatalf("no known extent, expected nil, got %v", got)
	}
	if got := unionExtent(nil, channel.KindWaveform); got != nil {
		t.Fatalf("no gates, expected nil, got %v", got)
	}

	// The union is a copy; mutating it must not corrupt the gate.
	u := unionExtent([]*Gate{g1}, channel.KindWaveform)
	u.TMin = -1
	if g1.Spans[channel.KindWaveform].TMin != 100 {
		t.Fatalf("unionExtent must not alias gate spans")
	}
}

func TestUnionCodes(t *testing.T) {
	gates := []*Gate{
		{Codes: []string{"B", "A"}},
		{Codes: []string{"A", "C"}},
		{},
	}
	got := unionCodes(gates)
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
