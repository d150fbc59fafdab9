// Package httprpc implements channel.DataChannel over HTTP: each request is
// a POST of codec-encoded params to <base>/<endpoint>, the response body is
// the codec-encoded result. This is the protocol the reference service
// package serves.
package httprpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openseis/blockview/channel"
	"github.com/openseis/blockview/codec"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	// BaseURL is the endpoint prefix, e.g. "http://localhost:2323/squirrel".
	BaseURL string

	// Codec encodes params and decodes results. Defaults to codec.JSON.
	Codec codec.Codec

	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

type Client struct {
	base  string
	codec codec.Codec
	hc    *http.Client
}

var _ channel.DataChannel = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("httprpc: base URL is required")
	}
	c := &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		codec: cfg.Codec,
		hc:    cfg.HTTPClient,
	}
	if c.codec == nil {
		c.codec = codec.JSON{}
	}
	if c.hc == nil {
		c.hc = &http.Client{Timeout: defaultTimeout}
	}
	return c, nil
}

func (c *Client) Request(ctx context.Context, endpoint string, params, result any) error {
	body, err := c.codec.Marshal(params)
	if err != nil {
		return fmt.Errorf("httprpc: encode %s params: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", c.codec.ContentType())
	req.Header.Set("Accept", c.codec.ContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("httprpc: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httprpc: %s: read response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: trim(raw)}
	}
	if result == nil {
		return nil
	}
	if err := c.codec.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("httprpc: %s: decode response: %w", endpoint, err)
	}
	return nil
}

// StatusError reports a non-200 response from the service.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httprpc: %s: status %d: %s", e.Endpoint, e.Code, e.Body)
}

func trim(b []byte) string {
	const max = 256
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
