package petstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Request is the fully rendered outbound call as seen by interceptors.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Response is a fully buffered HTTP response. Non-2xx statuses are ordinary
// responses; only transport failures surface as errors.
type Response struct {
	Method     string
	URL        *url.URL
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Latency    time.Duration
}

// ContentType returns the raw Content-Type header.
func (r *Response) ContentType() string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// String returns the body as text.
func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("decode response: nil response")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s %s response (status %d): %w", r.Method, r.URL, r.StatusCode, err)
	}
	return nil
}

// LatencyMillis is the measured latency in whole milliseconds.
func (r *Response) LatencyMillis() int64 {
	if r == nil {
		return 0
	}
	return r.Latency.Milliseconds()
}

// TransportError reports a call that produced no HTTP response: connection
// refused, DNS failure, timeout or a body that could not be read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Handler performs a call, possibly by delegating further down the chain.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Interceptor observes or decorates a call around the continuation next.
type Interceptor func(ctx context.Context, req *Request, next Handler) (*Response, error)

// Chain composes interceptors around terminal. The first interceptor is the
// outermost one: it sees the request first and the response last.
func Chain(terminal Handler, interceptors ...Interceptor) Handler {
	h := terminal
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic := interceptors[i]
		if ic == nil {
			continue
		}
		next := h
		h = func(ctx context.Context, req *Request) (*Response, error) {
			return ic(ctx, req, next)
		}
	}
	return h
}

// transport is the terminal handler: exactly one HTTP exchange, latency
// measured from send until the body is fully read.
func transport(client *http.Client) Handler {
	return func(ctx context.Context, req *Request) (*Response, error) {
		target := req.URL.String()
		var body io.Reader
		if len(req.Body) > 0 {
			body = bytes.NewReader(req.Body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
		if err != nil {
			return nil, &TransportError{Method: req.Method, URL: target, Err: err}
		}
		httpReq.Header = req.Header.Clone()
		if httpReq.Header == nil {
			httpReq.Header = http.Header{}
		}

		start := time.Now()
		httpResp, err := client.Do(httpReq)
		if err != nil {
			return nil, &TransportError{Method: req.Method, URL: target, Err: err}
		}
		defer httpResp.Body.Close()

		payload, err := io.ReadAll(httpResp.Body)
		latency := time.Since(start)
		if err != nil {
			return nil, &TransportError{Method: req.Method, URL: target, Err: fmt.Errorf("read body: %w", err)}
		}
		return &Response{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Header:     httpResp.Header,
			Body:       payload,
			Latency:    latency,
		}, nil
	}
}
