// Package doerfake is a scripted apiclient.Doer for testing domain services
// without a backend.
package doerfake

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/jrsteele09/sop-console/apiclient"
)

// Handler answers one request.
type Handler func(req *apiclient.Request) (*apiclient.Response, error)

// Call is a request the fake received.
type Call struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string
}

// Decode unmarshals the call body into v.
func (c Call) Decode(v any) error {
	return json.Unmarshal(c.Body, v)
}

// Doer routes requests by method and path. Unrouted requests fail with a 404
// passthrough error.
type Doer struct {
	mu     sync.Mutex
	routes map[string]Handler
	calls  []Call
}

var _ apiclient.Doer = (*Doer)(nil)

func New() *Doer {
	return &Doer{routes: map[string]Handler{}}
}

// On routes method and path to h.
func (d *Doer) On(method, path string, h Handler) *Doer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[method+" "+path] = h
	return d
}

func (d *Doer) Do(_ context.Context, req *apiclient.Request) (*apiclient.Response, error) {
	d.mu.Lock()
	d.calls = append(d.calls, Call{
		Method:      req.Method,
		Path:        req.Path,
		Query:       req.Query,
		Body:        slices.Clone(req.Body),
		ContentType: req.ContentType,
	})
	h, ok := d.routes[req.Method+" "+req.Path]
	d.mu.Unlock()

	if !ok {
		return nil, &apiclient.Error{Kind: apiclient.KindPassthrough, Status: http.StatusNotFound, Method: req.Method, Path: req.Path}
	}
	return h(req)
}

// Calls returns every request received so far.
func (d *Doer) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

// Last returns the most recent request for method and path.
func (d *Doer) Last(method, path string) (Call, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.calls) - 1; i >= 0; i-- {
		if d.calls[i].Method == method && d.calls[i].Path == path {
			return d.calls[i], true
		}
	}
	return Call{}, false
}

// Reply answers with status and v encoded as JSON. A nil v sends no body.
func Reply(status int, v any) Handler {
	return func(req *apiclient.Request) (*apiclient.Response, error) {
		var body []byte
		if v != nil {
			var err error
			if body, err = json.Marshal(v); err != nil {
				return nil, err
			}
		}
		return &apiclient.Response{Status: status, Header: http.Header{"Content-Type": {"application/json"}}, Body: body}, nil
	}
}

// Fail answers with an apiclient error of the given kind.
func Fail(kind apiclient.Kind, status int, message string) Handler {
	return func(req *apiclient.Request) (*apiclient.Response, error) {
		return nil, &apiclient.Error{Kind: kind, Status: status, Message: message, Method: req.Method, Path: req.Path}
	}
}
