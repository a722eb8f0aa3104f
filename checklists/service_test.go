package checklists_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/apiclient/doerfake"
	"github.com/jrsteele09/sop-console/checklists"
	"github.com/jrsteele09/sop-console/internal/utils"
	"github.com/stretchr/testify/require"
)

func sample() []checklists.Checklist {
	return []checklists.Checklist{
		{ID: 1, TaskName: "Kiểm tra máy nén khí", WorkContent: "Check pressure", Implementers: []string{"group:3"}, Status: checklists.StatusActive},
		{ID: 2, TaskName: "Vệ sinh bồn", WorkContent: "Weekly tank cleaning", Implementers: []string{"user:17"}, Status: checklists.StatusInactive},
		{ID: 3, TaskName: "Backup server", WorkContent: "Verify nightly backup", Implementers: []string{"group:9", "user:17"}, Status: checklists.StatusActive},
	}
}

func ids(in []checklists.Checklist) []int64 {
	out := make([]int64, 0, len(in))
	for _, c := range in {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter checklists.Filter
		want   []int64
	}{
		{"no filter", checklists.Filter{}, []int64{1, 2, 3}},
		{"status", checklists.Filter{Status: "active"}, []int64{1, 3}},
		{"task name", checklists.Filter{Search: "MÁY NÉN"}, []int64{1}},
		{"work content", checklists.Filter{Search: "backup"}, []int64{3}},
		{"implementer", checklists.Filter{Search: "user:17"}, []int64{2, 3}},
		{"status and search", checklists.Filter{Status: checklists.StatusInactive, Search: "user:17"}, []int64{2}},
		{"blank search", checklists.Filter{Search: "   "}, []int64{1, 2, 3}},
		{"no match", checklists.Filter{Search: "nothing"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ids(tt.filter.Apply(sample())))
		})
	}
}

func TestServiceList(t *testing.T) {
	doer := doerfake.New().On(http.MethodGet, "/api/checklists", doerfake.Reply(http.StatusOK, sample()))
	svc := checklists.NewService(doer)

	got, err := svc.List(context.Background(), checklists.Filter{GroupID: utils.Ptr(int64(3)), Search: "backup"})
	require.NoError(t, err)
	require.Equal(t, []int64{3}, ids(got))

	call, ok := doer.Last(http.MethodGet, "/api/checklists")
	require.True(t, ok)
	require.Equal(t, "3", call.Query.Get("groupId"))
}

func TestServiceCreate(t *testing.T) {
	doer := doerfake.New().On(http.MethodPost, "/api/checklists", doerfake.Reply(http.StatusCreated, checklists.Checklist{ID: 9, TaskName: "New", Status: checklists.StatusActive}))
	svc := checklists.NewService(doer)

	_, err := svc.Create(context.Background(), checklists.Checklist{})
	require.Error(t, err)
	require.Empty(t, doer.Calls())

	created, err := svc.Create(context.Background(), checklists.Checklist{ID: 4, TaskName: "New"})
	require.NoError(t, err)
	require.Equal(t, int64(9), created.ID)

	call, _ := doer.Last(http.MethodPost, "/api/checklists")
	var sent map[string]any
	require.NoError(t, call.Decode(&sent))
	require.Equal(t, "ACTIVE", sent["status"])
	require.NotContains(t, sent, "id")
}

func TestServicePatchSendsOnlySetFields(t *testing.T) {
	doer := doerfake.New().On(http.MethodPatch, "/api/checklists/5", doerfake.Reply(http.StatusOK, checklists.Checklist{ID: 5}))
	svc := checklists.NewService(doer)

	_, err := svc.Patch(context.Background(), 5, checklists.Patch{Status: utils.Ptr(checklists.StatusInactive)})
	require.NoError(t, err)

	call, _ := doer.Last(http.MethodPatch, "/api/checklists/5")
	require.JSONEq(t, `{"status":"INACTIVE"}`, string(call.Body))
}

func TestServiceDetails(t *testing.T) {
	doer := doerfake.New().
		On(http.MethodGet, "/api/checklist-details", doerfake.Reply(http.StatusOK, []checklists.Detail{{ID: 11, Status: checklists.DetailPending}})).
		On(http.MethodPost, "/api/checklist-details/11/send-mail", doerfake.Reply(http.StatusOK, checklists.MailResult{Success: true, Message: "sent"})).
		On(http.MethodDelete, "/api/checklist-details/11", doerfake.Reply(http.StatusNoContent, nil))
	svc := checklists.NewService(doer)

	details, err := svc.ListDetails(context.Background(), 4, checklists.DetailFilter{Status: checklists.DetailPending, Query: "máy"})
	require.NoError(t, err)
	require.Len(t, details, 1)
	call, _ := doer.Last(http.MethodGet, "/api/checklist-details")
	require.Equal(t, "4", call.Query.Get("parentId"))
	require.Equal(t, "PENDING", call.Query.Get("status"))
	require.Equal(t, "máy", call.Query.Get("q"))

	res, err := svc.SendDetailMail(context.Background(), 11)
	require.NoError(t, err)
	require.True(t, res.Success)

	require.NoError(t, svc.DeleteDetail(context.Background(), 11))
}

func TestServicePropagatesClientErrors(t *testing.T) {
	doer := doerfake.New().On(http.MethodDelete, "/api/checklists/5", doerfake.Fail(apiclient.KindBusiness, http.StatusForbidden, "Không thể xóa"))
	svc := checklists.NewService(doer)

	err := svc.Delete(context.Background(), 5)
	require.True(t, apiclient.IsKind(err, apiclient.KindBusiness))
	require.Equal(t, "Không thể xóa", apiclient.MessageOf(err))
}
