package improvements

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jrsteele09/sop-console/apiclient"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
)

const (
	improvementsPath = "/api/improvements"
	progressPath     = "/api/improvement-progress"
	eventsPath       = "/api/improvement-events"
)

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Improvement, error) {
	var all []Improvement
	if err := apiclient.GetJSON(ctx, s.api, improvementsPath, nil, &all); err != nil {
		return nil, fmt.Errorf("[improvements List] %w", err)
	}
	return f.Apply(all), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Improvement, error) {
	var imp Improvement
	if err := apiclient.GetJSON(ctx, s.api, improvementPath(id), nil, &imp); err != nil {
		return Improvement{}, fmt.Errorf("[improvements Get] %d: %w", id, err)
	}
	return imp, nil
}

// Create files a new improvement. A blank status is sent as PENDING.
func (s *Service) Create(ctx context.Context, imp Improvement) (Improvement, error) {
	if imp.Category == "" {
		return Improvement{}, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "[improvements Create] category is required")
	}
	if imp.Status == "" {
		imp.Status = StatusPending
	}
	imp.ImprovementID = 0
	var created Improvement
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, improvementsPath, imp, &created); err != nil {
		return Improvement{}, fmt.Errorf("[improvements Create] %w", err)
	}
	return created, nil
}

func (s *Service) Patch(ctx context.Context, id int64, p Patch) (Improvement, error) {
	var updated Improvement
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPatch, improvementPath(id), p, &updated); err != nil {
		return Improvement{}, fmt.Errorf("[improvements Patch] %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, improvementPath(id), nil, nil); err != nil {
		return fmt.Errorf("[improvements Delete] %d: %w", id, err)
	}
	return nil
}

func (s *Service) ListProgress(ctx context.Context, improvementID int64) ([]Progress, error) {
	var history []Progress
	if err := apiclient.GetJSON(ctx, s.api, improvementPath(improvementID)+"/progress", nil, &history); err != nil {
		return nil, fmt.Errorf("[improvements ListProgress] %d: %w", improvementID, err)
	}
	return history, nil
}

// AddProgress records a step. It reads the current history first and refuses
// with ErrProgressOverflow, without writing, when the completed total plus
// in.Percent would pass MaxProgress.
func (s *Service) AddProgress(ctx context.Context, improvementID int64, in ProgressInput) (Progress, error) {
	if err := validPercent(in.Percent); err != nil {
		return Progress{}, fmt.Errorf("[improvements AddProgress] %w", err)
	}
	history, err := s.ListProgress(ctx, improvementID)
	if err != nil {
		return Progress{}, err
	}
	if CompletedTotal(history)+in.Percent > MaxProgress {
		return Progress{}, consoleerrors.Wrapf(consoleerrors.ErrProgressOverflow,
			"[improvements AddProgress] %d: %d%% remaining", improvementID, Remaining(history))
	}

	var created Progress
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, improvementPath(improvementID)+"/progress", in, &created); err != nil {
		return Progress{}, fmt.Errorf("[improvements AddProgress] %d: %w", improvementID, err)
	}
	return created, nil
}

// PatchProgress changes step progressID of an improvement. The step's own
// completed percentage is replaced, not added, when checking the ceiling.
func (s *Service) PatchProgress(ctx context.Context, improvementID, progressID int64, in ProgressInput) (Progress, error) {
	if err := validPercent(in.Percent); err != nil {
		return Progress{}, fmt.Errorf("[improvements PatchProgress] %w", err)
	}
	history, err := s.ListProgress(ctx, improvementID)
	if err != nil {
		return Progress{}, err
	}
	total := CompletedTotal(history)
	for _, p := range history {
		if p.ID == progressID && p.Status == ProgressCompleted {
			total -= p.Percent
		}
	}
	if total+in.Percent > MaxProgress {
		return Progress{}, consoleerrors.Wrapf(consoleerrors.ErrProgressOverflow,
			"[improvements PatchProgress] %d: %d%% remaining", progressID, max(MaxProgress-total, 0))
	}

	var updated Progress
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPatch, progressItemPath(progressID), in, &updated); err != nil {
		return Progress{}, fmt.Errorf("[improvements PatchProgress] %d: %w", progressID, err)
	}
	return updated, nil
}

func (s *Service) DeleteProgress(ctx context.Context, progressID int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, progressItemPath(progressID), nil, nil); err != nil {
		return fmt.Errorf("[improvements DeleteProgress] %d: %w", progressID, err)
	}
	return nil
}

func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := apiclient.GetJSON(ctx, s.api, eventsPath, nil, &events); err != nil {
		return nil, fmt.Errorf("[improvements ListEvents] %w", err)
	}
	return events, nil
}

func validPercent(p int) error {
	if p < 0 || p > MaxProgress {
		return consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "percent %d out of range", p)
	}
	return nil
}

func improvementPath(id int64) string {
	return improvementsPath + "/" + strconv.FormatInt(id, 10)
}

func progressItemPath(id int64) string {
	return progressPath + "/" + strconv.FormatInt(id, 10)
}
