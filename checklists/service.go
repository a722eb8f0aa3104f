package checklists

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/sop-console/apiclient"
)

const (
	checklistsPath = "/api/checklists"
	detailsPath    = "/api/checklist-details"
)

// Service talks to the checklist endpoints through a session client.
type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// List returns the checklists matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]Checklist, error) {
	query := url.Values{}
	if f.GroupID != nil {
		query.Set("groupId", strconv.FormatInt(*f.GroupID, 10))
	}
	var all []Checklist
	if err := apiclient.GetJSON(ctx, s.api, checklistsPath, query, &all); err != nil {
		return nil, fmt.Errorf("[checklists List] %w", err)
	}
	return f.Apply(all), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Checklist, error) {
	var c Checklist
	if err := apiclient.GetJSON(ctx, s.api, checklistPath(id), nil, &c); err != nil {
		return Checklist{}, fmt.Errorf("[checklists Get] %d: %w", id, err)
	}
	return c, nil
}

// Create adds a checklist. A blank status is sent as ACTIVE.
func (s *Service) Create(ctx context.Context, c Checklist) (Checklist, error) {
	if c.TaskName == "" {
		return Checklist{}, fmt.Errorf("[checklists Create] task name is required")
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	c.ID = 0
	var created Checklist
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, checklistsPath, c, &created); err != nil {
		return Checklist{}, fmt.Errorf("[checklists Create] %w", err)
	}
	return created, nil
}

func (s *Service) Patch(ctx context.Context, id int64, p Patch) (Checklist, error) {
	var updated Checklist
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPatch, checklistPath(id), p, &updated); err != nil {
		return Checklist{}, fmt.Errorf("[checklists Patch] %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, checklistPath(id), nil, nil); err != nil {
		return fmt.Errorf("[checklists Delete] %d: %w", id, err)
	}
	return nil
}

// ListDetails returns the occurrences of one checklist, newest first.
func (s *Service) ListDetails(ctx context.Context, checklistID int64, f DetailFilter) ([]Detail, error) {
	query := url.Values{"parentId": {strconv.FormatInt(checklistID, 10)}}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.GroupID != nil {
		query.Set("groupId", strconv.FormatInt(*f.GroupID, 10))
	}
	if f.Query != "" {
		query.Set("q", f.Query)
	}
	var details []Detail
	if err := apiclient.GetJSON(ctx, s.api, detailsPath, query, &details); err != nil {
		return nil, fmt.Errorf("[checklists ListDetails] %d: %w", checklistID, err)
	}
	return details, nil
}

func (s *Service) GetDetail(ctx context.Context, id int64) (Detail, error) {
	var d Detail
	if err := apiclient.GetJSON(ctx, s.api, detailPath(id), nil, &d); err != nil {
		return Detail{}, fmt.Errorf("[checklists GetDetail] %d: %w", id, err)
	}
	return d, nil
}

func (s *Service) PatchDetail(ctx context.Context, id int64, p DetailPatch) (Detail, error) {
	var d Detail
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPatch, detailPath(id), p, &d); err != nil {
		return Detail{}, fmt.Errorf("[checklists PatchDetail] %d: %w", id, err)
	}
	return d, nil
}

func (s *Service) DeleteDetail(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, detailPath(id), nil, nil); err != nil {
		return fmt.Errorf("[checklists DeleteDetail] %d: %w", id, err)
	}
	return nil
}

// SendDetailMail asks the backend to email a reminder for an open detail. The
// backend answers 200 with Success false when it refuses.
func (s *Service) SendDetailMail(ctx context.Context, id int64) (MailResult, error) {
	var res MailResult
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, detailPath(id)+"/send-mail", nil, &res); err != nil {
		return MailResult{}, fmt.Errorf("[checklists SendDetailMail] %d: %w", id, err)
	}
	return res, nil
}

func checklistPath(id int64) string {
	return checklistsPath + "/" + strconv.FormatInt(id, 10)
}

func detailPath(id int64) string {
	return detailsPath + "/" + strconv.FormatInt(id, 10)
}
