package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jrsteele09/sop-console/apiclient"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"

	maxJSONBody = 1 << 20
)

var errorPage = mustParsePage("error.html")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode JSON response")
	}
}

// writeJSONError writes {"error": message}, the shape the console scripts
// show as a toast.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError turns an error from a domain service into a response. A session
// that ended sends the browser to the login page; everything else keeps it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apiclient.IsSessionEnded(err) {
		s.redirectToLogin(w, r, "Session expired")
		return
	}

	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("path", r.URL.Path).Str("request_id", requestID(r.Context())).Msg("request failed")
	}
	if isAPIRequest(r) {
		writeJSONError(w, status, message)
		return
	}
	data := s.pageData(r, http.StatusText(status), nil)
	data.Error = message
	render(w, status, errorPage, data)
}

func (s *Server) writeForbidden(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, consoleerrors.ErrForbidden)
}

// classify maps an error to a status code and a message fit for the user.
func classify(err error) (int, string) {
	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, consoleerrors.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, consoleerrors.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to do that"
	case errors.Is(err, consoleerrors.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, consoleerrors.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, consoleerrors.ErrProgressOverflow):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &apiErr):
		return classifyBackend(apiErr)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func classifyBackend(e *apiclient.Error) (int, string) {
	message := e.Message
	switch e.Kind {
	case apiclient.KindNetwork:
		return http.StatusBadGateway, "The backend could not be reached"
	case apiclient.KindBusiness, apiclient.KindPassthrough:
		status := e.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		if message == "" {
			message = http.StatusText(status)
		}
		return status, message
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "malformed JSON body: %s", err)
	}
	return nil
}

// pathID parses a numeric path value.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "%s %q is not a valid id", name, raw)
	}
	return id, nil
}

// queryID parses an optional numeric query value.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "%s %q is not a valid id", name, raw)
	}
	return &id, nil
}
