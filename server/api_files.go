package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/sop-console/files"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/jrsteele09/sop-console/settings"
)

const (
	uploadFormField   = "file"
	uploadMemory      = 8 << 20
	multipartOverhead = 1 << 20
)

// UploadFileHandler relays one multipart file to the backend. The destination
// comes from the "destination" query or form value; any other form value is
// passed through, which is how the backend learns the SOP or improvement
// folder.
func (s *Server) UploadFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := WorkspaceFrom(r.Context())
		if !ok {
			s.redirectToLogin(w, r, "")
			return
		}

		limits := settings.NewService(ws.Client)
		limit := limits.FileUploadLimit(r.Context())
		r.Body = http.MaxBytesReader(w, r.Body, limit.MaxSizeBytes+multipartOverhead)
		if err := r.ParseMultipartForm(uploadMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				s.writeError(w, r, consoleerrors.Wrapf(consoleerrors.ErrFileTooLarge, "upload exceeds %d MB", limit.MaxSizeMB))
				return
			}
			s.writeError(w, r, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "malformed upload: %s", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		dest := files.SOPDocument
		if raw := r.FormValue("destination"); raw != "" {
			if dest, ok = files.ParseDestination(raw); !ok {
				s.writeError(w, r, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "unknown destination %q", raw))
				return
			}
		}

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			s.writeError(w, r, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "form field %q: %s", uploadFormField, err))
			return
		}
		defer file.Close()

		fields := make(map[string]string)
		for k, v := range r.MultipartForm.Value {
			if k == "destination" || len(v) == 0 {
				continue
			}
			fields[k] = v[0]
		}

		info, err := files.NewService(ws.Client, limits).Upload(r.Context(), files.Upload{
			Destination: dest,
			FileName:    header.Filename,
			Content:     file,
			Size:        header.Size,
			Fields:      fields,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, info)
	}
}
