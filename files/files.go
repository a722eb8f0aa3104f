// Package files uploads attachments through the session client.
package files

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/jrsteele09/sop-console/apiclient"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/jrsteele09/sop-console/settings"
)

// Info describes a stored attachment as the domain records reference it.
type Info struct {
	ID       int64  `json:"id,omitempty"`
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType,omitempty"`
	FileSize int64  `json:"fileSize"`
}

// Destination is the backend upload endpoint for a kind of record.
type Destination string

const (
	SOPDocument     Destination = "/api/upload"
	Improvement     Destination = "/api/improvement-upload"
	ChecklistDetail Destination = "/api/checklist-upload"
)

// ParseDestination maps a short name onto a Destination.
func ParseDestination(s string) (Destination, bool) {
	switch s {
	case "sop", "sop-document":
		return SOPDocument, true
	case "improvement":
		return Improvement, true
	case "checklist", "checklist-detail":
		return ChecklistDetail, true
	default:
		return "", false
	}
}

// Upload is one file to send. Fields become extra form values, for example
// sopName and sopDocumentName or improvementName, which the backend uses to
// pick a folder.
type Upload struct {
	Destination Destination
	FileName    string
	Content     io.Reader
	Size        int64
	Fields      map[string]string
}

type uploadResult struct {
	URL      string `json:"url"`
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// LimitSource reports the current attachment cap. *settings.Service
// satisfies it.
type LimitSource interface {
	FileUploadLimit(ctx context.Context) settings.UploadLimit
}

type Service struct {
	api    apiclient.Doer
	limits LimitSource
}

func NewService(api apiclient.Doer, limits LimitSource) *Service {
	return &Service{api: api, limits: limits}
}

// Upload checks the size against the upload limit, then posts the file as
// multipart form data. The body is buffered so the session client can replay
// it after a token refresh.
func (s *Service) Upload(ctx context.Context, u Upload) (Info, error) {
	if u.Destination == "" {
		u.Destination = SOPDocument
	}
	if u.FileName == "" || u.Content == nil {
		return Info{}, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "[files Upload] file is required")
	}

	limit := s.limits.FileUploadLimit(ctx)
	if u.Size > 0 && !limit.Allows(u.Size) {
		return Info{}, consoleerrors.Wrapf(consoleerrors.ErrFileTooLarge, "[files Upload] %s is %d bytes, limit is %d MB", u.FileName, u.Size, limit.MaxSizeMB)
	}

	// The declared size may be missing or wrong; never read past the limit.
	content, err := io.ReadAll(io.LimitReader(u.Content, limit.MaxSizeBytes+1))
	if err != nil {
		return Info{}, fmt.Errorf("[files Upload] read %s: %w", u.FileName, err)
	}
	if !limit.Allows(int64(len(content))) {
		return Info{}, consoleerrors.Wrapf(consoleerrors.ErrFileTooLarge, "[files Upload] %s exceeds %d MB", u.FileName, limit.MaxSizeMB)
	}

	body, contentType, err := encodeForm(u, content)
	if err != nil {
		return Info{}, fmt.Errorf("[files Upload] encode %s: %w", u.FileName, err)
	}

	resp, err := s.api.Do(ctx, &apiclient.Request{
		Method:      http.MethodPost,
		Path:        string(u.Destination),
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return Info{}, fmt.Errorf("[files Upload] %s: %w", u.FileName, err)
	}

	var res uploadResult
	if err := resp.DecodeJSON(&res); err != nil {
		return Info{}, fmt.Errorf("[files Upload] %s: %w", u.FileName, err)
	}

	info := Info{
		FilePath: res.URL,
		FileName: u.FileName,
		FileType: detectType(u.FileName, content),
		FileSize: int64(len(content)),
	}
	if info.FilePath == "" {
		info.FilePath = res.FilePath
	}
	if info.FilePath == "" {
		return Info{}, fmt.Errorf("[files Upload] %s: backend returned no file location", u.FileName)
	}
	if res.FileName != "" {
		info.FileName = res.FileName
	}
	if res.FileType != "" {
		info.FileType = res.FileType
	}
	return info, nil
}

func encodeForm(u Upload, content []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range u.Fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile("file", filepath.Base(u.FileName))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func detectType(name string, content []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return http.DetectContentType(content)
}
