package improvements_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/sop-console/apiclient/doerfake"
	"github.com/jrsteele09/sop-console/improvements"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/stretchr/testify/require"
)

func history() []improvements.Progress {
	return []improvements.Progress{
		{ID: 1, Percent: 40, Status: improvements.ProgressCompleted},
		{ID: 2, Percent: 30, Status: improvements.ProgressCompleted},
		{ID: 3, Percent: 50, Status: improvements.ProgressOngoing},
	}
}

func TestProgressTotals(t *testing.T) {
	h := history()
	require.Equal(t, 70, improvements.CompletedTotal(h))
	require.Equal(t, 70, improvements.Overall(h))
	require.Equal(t, 30, improvements.Remaining(h))

	over := append(h, improvements.Progress{Percent: 50, Status: improvements.ProgressCompleted})
	require.Equal(t, 100, improvements.Overall(over))
	require.Equal(t, 0, improvements.Remaining(over))
}

func TestAddProgress(t *testing.T) {
	tests := []struct {
		name     string
		percent  int
		overflow bool
	}{
		{name: "fits exactly", percent: 30},
		{name: "below remaining", percent: 10},
		{name: "one too many", percent: 31, overflow: true},
		{name: "ongoing steps do not count", percent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := doerfake.New().
				On(http.MethodGet, "/api/improvements/8/progress", doerfake.Reply(http.StatusOK, history())).
				On(http.MethodPost, "/api/improvements/8/progress", doerfake.Reply(http.StatusCreated, improvements.Progress{ID: 9, Percent: tt.percent}))
			svc := improvements.NewService(doer)

			_, err := svc.AddProgress(context.Background(), 8, improvements.ProgressInput{Percent: tt.percent, Status: improvements.ProgressCompleted})
			_, posted := doer.Last(http.MethodPost, "/api/improvements/8/progress")
			if tt.overflow {
				require.ErrorIs(t, err, consoleerrors.ErrProgressOverflow)
				require.False(t, posted)
				return
			}
			require.NoError(t, err)
			require.True(t, posted)
		})
	}
}

func TestPatchProgressReplacesOwnShare(t *testing.T) {
	doer := doerfake.New().
		On(http.MethodGet, "/api/improvements/8/progress", doerfake.Reply(http.StatusOK, history())).
		On(http.MethodPatch, "/api/improvement-progress/1", doerfake.Reply(http.StatusOK, improvements.Progress{ID: 1, Percent: 70}))
	svc := improvements.NewService(doer)

	// 30 from step 2 plus 70 replacing step 1's 40.
	p, err := svc.PatchProgress(context.Background(), 8, 1, improvements.ProgressInput{Percent: 70, Status: improvements.ProgressCompleted})
	require.NoError(t, err)
	require.Equal(t, 70, p.Percent)

	_, err = svc.PatchProgress(context.Background(), 8, 1, improvements.ProgressInput{Percent: 71, Status: improvements.ProgressCompleted})
	require.ErrorIs(t, err, consoleerrors.ErrProgressOverflow)

	// Step 3 is not completed, so its 50 is not subtracted.
	_, err = svc.PatchProgress(context.Background(), 8, 3, improvements.ProgressInput{Percent: 31, Status: improvements.ProgressCompleted})
	require.ErrorIs(t, err, consoleerrors.ErrProgressOverflow)
}

func TestProgressPercentRange(t *testing.T) {
	svc := improvements.NewService(doerfake.New())
	_, err := svc.AddProgress(context.Background(), 8, improvements.ProgressInput{Percent: -1})
	require.ErrorIs(t, err, consoleerrors.ErrInvalidRequest)
	_, err = svc.AddProgress(context.Background(), 8, improvements.ProgressInput{Percent: 101})
	require.ErrorIs(t, err, consoleerrors.ErrInvalidRequest)
}

func TestListFilters(t *testing.T) {
	rows := []improvements.Improvement{
		{ImprovementID: 1, Category: "Leak in line 3", Responsible: "user:4", Status: "DONE"},
		{ImprovementID: 2, Category: "Labels", IssueDescription: "Missing leak warning", Responsible: "group:2", Status: "Đang thực hiện"},
		{ImprovementID: 3, Category: "Dust", Responsible: "user:4", Status: "PENDING", ChecklistDetailID: "77"},
	}
	doer := doerfake.New().On(http.MethodGet, "/api/improvements", doerfake.Reply(http.StatusOK, rows))
	svc := improvements.NewService(doer)

	ids := func(in []improvements.Improvement) []int64 {
		out := []int64{}
		for _, i := range in {
			out = append(out, i.ImprovementID)
		}
		return out
	}

	got, err := svc.List(context.Background(), improvements.Filter{Search: "LEAK"})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, ids(got))

	got, err = svc.List(context.Background(), improvements.Filter{Status: "in_progress"})
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids(got))

	got, err = svc.List(context.Background(), improvements.Filter{Responsible: "user:4", ChecklistDetailID: "77"})
	require.NoError(t, err)
	require.Equal(t, []int64{3}, ids(got))
}

func TestCreateDefaults(t *testing.T) {
	doer := doerfake.New().On(http.MethodPost, "/api/improvements", doerfake.Reply(http.StatusCreated, improvements.Improvement{ImprovementID: 5, Category: "Dust"}))
	svc := improvements.NewService(doer)

	_, err := svc.Create(context.Background(), improvements.Improvement{})
	require.ErrorIs(t, err, consoleerrors.ErrInvalidRequest)

	created, err := svc.Create(context.Background(), improvements.Improvement{ImprovementID: 99, Category: "Dust"})
	require.NoError(t, err)
	require.Equal(t, int64(5), created.ImprovementID)

	call, _ := doer.Last(http.MethodPost, "/api/improvements")
	var sent improvements.Improvement
	require.NoError(t, call.Decode(&sent))
	require.Equal(t, improvements.StatusPending, sent.Status)
	require.Zero(t, sent.ImprovementID)
}

func TestListEvents(t *testing.T) {
	doer := doerfake.New().On(http.MethodGet, "/api/improvement-events", doerfake.Reply(http.StatusOK, []improvements.Event{{ID: 1, EventName: "Audit"}}))
	events, err := improvements.NewService(doer).ListEvents(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Audit", events[0].EventName)
}
