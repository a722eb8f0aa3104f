package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const maxPlainMessage = 512

// Request is one call to the backend. Path is relative to the configured base
// URL.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
}

// NewJSONRequest encodes body as JSON. A nil body sends no payload.
func NewJSONRequest(method, path string, body any) (*Request, error) {
	req := &Request{Method: method, Path: path}
	if body == nil {
		return req, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("[apiclient NewJSONRequest] encode %s %s: %w", method, path, err)
	}
	req.Body = data
	req.ContentType = "application/json"
	return req, nil
}

// Response is a fully read backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// DecodeJSON unmarshals the body into v. An empty body leaves v untouched.
func (r *Response) DecodeJSON(v any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("[apiclient DecodeJSON] status %d: %w", r.Status, err)
	}
	return nil
}

// ErrorMessage extracts the human readable message of a failed response: the
// "error" or "message" field of a JSON body, or the body itself when it is
// plain text.
func (r *Response) ErrorMessage() string {
	if r == nil {
		return ""
	}
	body := bytes.TrimSpace(r.Body)
	if len(body) == 0 {
		return ""
	}
	if body[0] == '{' {
		var payload struct {
			Error   any `json:"error"`
			Message any `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			if s, ok := payload.Error.(string); ok && s != "" {
				return s
			}
			if s, ok := payload.Message.(string); ok && s != "" {
				return s
			}
		}
		return ""
	}
	if !utf8.Valid(body) {
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxPlainMessage {
		msg = msg[:maxPlainMessage]
	}
	return msg
}

// Doer sends requests through the session pipeline. *Client implements it;
// domain services depend on this interface only.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// GetJSON issues a GET and decodes the JSON response into out.
func GetJSON(ctx context.Context, d Doer, path string, query url.Values, out any) error {
	resp, err := d.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.DecodeJSON(out)
}

// SendJSON issues method with in encoded as JSON and decodes the response into
// out. Either may be nil.
func SendJSON(ctx context.Context, d Doer, method, path string, in, out any) error {
	req, err := NewJSONRequest(method, path, in)
	if err != nil {
		return err
	}
	resp, err := d.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.DecodeJSON(out)
}
