package httprpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/codec"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("New must reject an empty base URL")
	}
}

func TestRequest(t *testing.T) {
	ctx := context.Background()

	var gotPath, gotContentType string
	var gotParams channel.KindParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotParams); err != nil {
			t.Errorf("decode params: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]string{"XX.STA01..HHZ"})
	}))
	defer srv.Close()

	// A trailing slash on the base URL must not produce a double slash.
	c, err := New(Config{BaseURL: srv.URL + "/squirrel/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var codes []string
	err = c.Request(ctx, channel.EndpointCodes,
		channel.KindParams{Kind: channel.KindWaveform}, &codes)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if gotPath != "/squirrel/get_codes" {
		t.Fatalf("path expected /squirrel/get_codes, got %s", gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type expected application/json, got %s", gotContentType)
	}
	if gotParams.Kind != channel.KindWaveform {
		t.Fatalf("params not delivered: %+v", gotParams)
	}
	if len(codes) != 1 || codes[0] != "XX.STA01..HHZ" {
		t.Fatalf("result not decoded: %v", codes)
	}
}

func TestRequestNilResultDiscardsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not decodable as anything"))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Request(context.Background(), channel.EndpointCodes, channel.KindParams{}, nil); err != nil {
		t.Fatalf("nil result must skip decoding: %v", err)
	}
}

func TestRequestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid method: get_bogus", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out []string
	err = c.Request(context.Background(), "get_bogus", channel.KindParams{}, &out)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusBadRequest || se.Endpoint != "get_bogus" {
		t.Fatalf("status error fields wrong: %+v", se)
	}
	if !strings.Contains(se.Body, "invalid method") {
		t.Fatalf("status error should carry the body: %q", se.Body)
	}
}

func TestRequestMsgpackCodec(t *testing.T) {
	mp := codec.Msgpack{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != mp.ContentType() {
			t.Errorf("content type expected %s, got %s", mp.ContentType(), ct)
		}
		body, _ := io.ReadAll(r.Body)
		var params channel.KindParams
		if err := mp.Unmarshal(body, &params); err != nil {
			t.Errorf("decode msgpack params: %v", err)
		}
		raw, _ := mp.Marshal(channel.TimeSpanResult{TMin: "a", TMax: "b"})
		w.Header().Set("Content-Type", mp.ContentType())
		w.Write(raw)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Codec: mp})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var res channel.TimeSpanResult
	if err := c.Request(context.Background(), channel.EndpointTimeSpan,
		channel.KindParams{Kind: channel.KindChannel}, &res); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if res.TMin != "a" || res.TMax != "b" {
		t.Fatalf("msgpack result not decoded: %+v", res)
	}
}
