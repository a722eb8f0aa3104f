package sops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/rs/zerolog/log"
)

const (
	sopsPath      = "/api/sops"
	documentsPath = "/api/sop-documents"
	globalScope   = "global"
)

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]SOP, error) {
	var out []SOP
	if err := apiclient.GetJSON(ctx, s.api, sopsPath, nil, &out); err != nil {
		return nil, fmt.Errorf("[sops List] %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (SOP, error) {
	var out SOP
	if err := apiclient.GetJSON(ctx, s.api, sopPath(id), nil, &out); err != nil {
		return SOP{}, fmt.Errorf("[sops Get] %d: %w", id, err)
	}
	return out, nil
}

// Documents lists the documents of an SOP. The backend answers with either a
// bare array or a page envelope.
func (s *Service) Documents(ctx context.Context, sopID int64) ([]Document, error) {
	resp, err := s.api.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: sopPath(sopID) + "/documents"})
	if err != nil {
		return nil, fmt.Errorf("[sops Documents] %d: %w", sopID, err)
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		var docs []Document
		if err := json.Unmarshal(body, &docs); err != nil {
			return nil, fmt.Errorf("[sops Documents] decode: %w", err)
		}
		return docs, nil
	}
	var paged page[Document]
	if err := json.Unmarshal(body, &paged); err != nil {
		return nil, fmt.Errorf("[sops Documents] decode: %w", err)
	}
	return paged.Content, nil
}

func (s *Service) Create(ctx context.Context, name string) (SOP, error) {
	if name == "" {
		return SOP{}, fmt.Errorf("[sops Create] name is required")
	}
	var out SOP
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, sopsPath, map[string]string{"name": name}, &out); err != nil {
		return SOP{}, fmt.Errorf("[sops Create] %w", err)
	}
	return out, nil
}

func (s *Service) Rename(ctx context.Context, id int64, name string) (SOP, error) {
	if name == "" {
		return SOP{}, fmt.Errorf("[sops Rename] name is required")
	}
	var out SOP
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPatch, sopPath(id), map[string]string{"name": name}, &out); err != nil {
		return SOP{}, fmt.Errorf("[sops Rename] %d: %w", id, err)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, sopPath(id), nil, nil); err != nil {
		return fmt.Errorf("[sops Delete] %d: %w", id, err)
	}
	return nil
}

// UpdateDocument replaces a document. A 403 here is a business rejection and
// leaves the session alone.
func (s *Service) UpdateDocument(ctx context.Context, id int64, u DocumentUpdate) (Document, error) {
	var out Document
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPut, documentPath(id), u, &out); err != nil {
		return Document{}, fmt.Errorf("[sops UpdateDocument] %d: %w", id, err)
	}
	return out, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, documentPath(id), nil, nil); err != nil {
		return fmt.Errorf("[sops DeleteDocument] %d: %w", id, err)
	}
	return nil
}

// GlobalPermissions returns what the user may do across every SOP.
func (s *Service) GlobalPermissions(ctx context.Context) (Permissions, error) {
	var p Permissions
	if err := apiclient.GetJSON(ctx, s.api, sopsPath+"/"+globalScope+"/permissions/my", nil, &p); err != nil {
		return Permissions{}, fmt.Errorf("[sops GlobalPermissions] %w", err)
	}
	return p, nil
}

// MyPermissions merges the global grant with the grant on one SOP. A failure
// to read the per-SOP grant falls back to the global one.
func (s *Service) MyPermissions(ctx context.Context, sopID int64) (Permissions, error) {
	global, err := s.GlobalPermissions(ctx)
	if err != nil {
		return Permissions{}, err
	}

	var scoped Permissions
	if err := apiclient.GetJSON(ctx, s.api, sopPath(sopID)+"/permissions/my", nil, &scoped); err != nil {
		if apiclient.IsSessionEnded(err) {
			return Permissions{}, fmt.Errorf("[sops MyPermissions] %d: %w", sopID, err)
		}
		log.Debug().Err(err).Int64("sop", sopID).Msg("no per-SOP permissions, using global")
		return global, nil
	}
	return global.Merge(scoped), nil
}

func sopPath(id int64) string {
	return sopsPath + "/" + strconv.FormatInt(id, 10)
}

func documentPath(id int64) string {
	return documentsPath + "/" + strconv.FormatInt(id, 10)
}
