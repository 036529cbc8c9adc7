package easemob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is exactly 200. Boolean endpoints use this
// rule, so 201 and 204 count as failures.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &ResponseDecodeError{StatusCode: r.StatusCode, Body: r.Body, Err: err}
	}
	return nil
}

// url resolves path against the base URL. Absolute http(s) URLs are used
// verbatim.
func (c *Client) url(path string, query url.Values) string {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		u = c.baseURL + strings.TrimPrefix(path, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

// doRequest performs one HTTP exchange and records it as the last response.
// An empty token sends no Authorization header.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	headers http.Header,
	token string,
) (*Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	target := c.url(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, sendErr := c.httpClient.Do(req)
	if sendErr != nil {
		httpResp = responseFromError(httpResp, sendErr)
		if httpResp == nil {
			c.setLastResponse(nil)
			return nil, &TransportError{Method: method, URL: target, Err: sendErr}
		}
	}

	resp, err := readResponse(httpResp, sendErr != nil)
	if err != nil {
		c.setLastResponse(nil)
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}

	c.setLastResponse(resp)
	return resp, nil
}

// responseFromError returns the response attached to a failed exchange.
// http.Client returns one alongside CheckRedirect errors; custom transports
// may attach one through ResponseCarrier.
func responseFromError(resp *http.Response, err error) *http.Response {
	if resp != nil {
		return resp
	}
	var carrier ResponseCarrier
	if errors.As(err, &carrier) {
		return carrier.HTTPResponse()
	}
	return nil
}

// readResponse drains and closes the body. Responses recovered from errors
// may already have a closed body; read failures are ignored for those.
func readResponse(resp *http.Response, recovered bool) (*Response, error) {
	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header}
	if resp.Body == nil {
		return out, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil && !recovered {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	out.Body = body
	return out, nil
}

// decodeJSON decodes resp into target regardless of status and stamps the
// status on the embedded Envelope when target has one.
func decodeJSON[T any](resp *Response, target *T) (*T, error) {
	if err := resp.DecodeJSON(target); err != nil {
		return nil, err
	}
	if s, ok := any(target).(interface{ setStatus(int) }); ok {
		s.setStatus(resp.StatusCode)
	}
	return target, nil
}
