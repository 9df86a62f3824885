package petstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// ErrMissingPathParam is returned, before any I/O, when a path template names
// a parameter the call does not supply.
var ErrMissingPathParam = errors.New("missing path parameter")

// Media types used on the wire.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Call describes one endpoint invocation relative to a RequestSpec. Path is a
// template such as "/pet/{petId}"; path values use the OpenAPI simple style and
// query values the form style.
type Call struct {
	Method     string
	Path       string
	PathParams map[string]any
	Query      map[string]any
	Form       url.Values
	Header     http.Header
	Body       any
}

func (c Call) render(base *url.URL, defaults http.Header) (*Request, error) {
	method := strings.ToUpper(strings.TrimSpace(c.Method))
	if method == "" {
		method = http.MethodGet
	}
	path, err := renderPath(c.Path, c.PathParams)
	if err != nil {
		return nil, err
	}
	root := *base
	root.RawQuery, root.Fragment = "", ""
	target, err := url.Parse(strings.TrimRight(root.String(), "/") + path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", c.Path, err)
	}

	query, err := renderQuery(c.Query)
	if err != nil {
		return nil, err
	}
	target.RawQuery = query

	header := defaults.Clone()
	if header == nil {
		header = http.Header{}
	}
	for k, vals := range c.Header {
		header.Del(k)
		for _, v := range vals {
			header.Add(k, v)
		}
	}

	var body []byte
	switch {
	case c.Form != nil:
		body = []byte(c.Form.Encode())
		header.Set("Content-Type", ContentTypeForm)
	case c.Body != nil:
		if raw, ok := c.Body.(json.RawMessage); ok {
			body = raw
		} else if body, err = json.Marshal(c.Body); err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, c.Path, err)
		}
	}

	return &Request{Method: method, URL: target, Header: header, Body: body}, nil
}

// renderPath substitutes {name} segments. The rendered value is already
// escaped for use in a path.
func renderPath(template string, params map[string]any) (string, error) {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("path template %q: unterminated parameter", template)
		}
		name := rest[open+1 : open+end]
		value, ok := params[name]
		if !ok || value == nil {
			return "", fmt.Errorf("%w %q in %s", ErrMissingPathParam, name, template)
		}
		styled, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
		if err != nil {
			return "", fmt.Errorf("path parameter %q: %w", name, err)
		}
		b.WriteString(rest[:open])
		b.WriteString(styled)
		rest = rest[open+end+1:]
	}
	p := b.String()
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p, nil
}

func renderQuery(params map[string]any) (string, error) {
	if len(params) == 0 {
		return "", nil
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	values := url.Values{}
	for _, name := range names {
		if params[name] == nil {
			continue
		}
		frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, params[name])
		if err != nil {
			return "", fmt.Errorf("query parameter %q: %w", name, err)
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return "", fmt.Errorf("query parameter %q: %w", name, err)
		}
		for k, vs := range parsed {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
	}
	return values.Encode(), nil
}
