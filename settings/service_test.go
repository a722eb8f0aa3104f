package settings_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/apiclient/doerfake"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/jrsteele09/sop-console/settings"
	"github.com/stretchr/testify/require"
)

func TestFileUploadLimit(t *testing.T) {
	tests := []struct {
		name    string
		handler doerfake.Handler
		want    settings.UploadLimit
	}{
		{
			name:    "backend value",
			handler: doerfake.Reply(http.StatusOK, map[string]int64{"maxSizeMb": 25, "maxSizeBytes": 25 * 1024 * 1024}),
			want:    settings.UploadLimit{MaxSizeMB: 25, MaxSizeBytes: 26214400},
		},
		{
			name:    "bytes derived from megabytes",
			handler: doerfake.Reply(http.StatusOK, map[string]int64{"maxSizeMb": 2}),
			want:    settings.UploadLimit{MaxSizeMB: 2, MaxSizeBytes: 2097152},
		},
		{
			name:    "server error falls back",
			handler: doerfake.Fail(apiclient.KindPassthrough, http.StatusInternalServerError, ""),
			want:    settings.UploadLimit{MaxSizeMB: 10, MaxSizeBytes: 10485760},
		},
		{
			name:    "network error falls back",
			handler: doerfake.Fail(apiclient.KindNetwork, 0, ""),
			want:    settings.UploadLimit{MaxSizeMB: 10, MaxSizeBytes: 10485760},
		},
		{
			name:    "empty answer falls back",
			handler: doerfake.Reply(http.StatusOK, map[string]int64{}),
			want:    settings.UploadLimit{MaxSizeMB: 10, MaxSizeBytes: 10485760},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := doerfake.New().On(http.MethodGet, "/api/limit-size/file-upload-limit", tt.handler)
			got := settings.NewService(doer).FileUploadLimit(context.Background())
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUploadLimitAllows(t *testing.T) {
	l := settings.DefaultUploadLimit()
	require.True(t, l.Allows(10485760))
	require.False(t, l.Allows(10485761))
}

func TestEnsureDefaults(t *testing.T) {
	t.Run("initialises when missing", func(t *testing.T) {
		doer := doerfake.New().
			On(http.MethodGet, "/api/limit-size/active", doerfake.Reply(http.StatusOK, []settings.LimitSize{{SettingName: "IMAGE_LIMIT", IsActive: true}})).
			On(http.MethodPost, "/api/limit-size/init-default", doerfake.Reply(http.StatusOK, map[string]string{"message": "ok"}))
		require.True(t, settings.NewService(doer).EnsureDefaults(context.Background()))
		_, called := doer.Last(http.MethodPost, "/api/limit-size/init-default")
		require.True(t, called)
	})

	t.Run("leaves an existing limit alone", func(t *testing.T) {
		doer := doerfake.New().
			On(http.MethodGet, "/api/limit-size/active", doerfake.Reply(http.StatusOK, []settings.LimitSize{{SettingName: settings.FileUploadLimitName, IsActive: true}}))
		require.False(t, settings.NewService(doer).EnsureDefaults(context.Background()))
		_, called := doer.Last(http.MethodPost, "/api/limit-size/init-default")
		require.False(t, called)
	})

	t.Run("failures are not fatal", func(t *testing.T) {
		doer := doerfake.New().
			On(http.MethodGet, "/api/limit-size/active", doerfake.Reply(http.StatusOK, []settings.LimitSize{})).
			On(http.MethodPost, "/api/limit-size/init-default", doerfake.Fail(apiclient.KindPassthrough, http.StatusInternalServerError, "boom"))
		require.False(t, settings.NewService(doer).EnsureDefaults(context.Background()))
	})
}

func TestCheckFileSizeDefaultsSetting(t *testing.T) {
	doer := doerfake.New().On(http.MethodPost, "/api/limit-size/check-file-size",
		doerfake.Reply(http.StatusOK, settings.SizeCheck{IsExceeded: true, FileSizeInBytes: 20 << 20, FileSizeInMB: "20.00", SettingName: settings.FileUploadLimitName}))

	check, err := settings.NewService(doer).CheckFileSize(context.Background(), 20<<20, "")
	require.NoError(t, err)
	require.True(t, check.IsExceeded)

	call, _ := doer.Last(http.MethodPost, "/api/limit-size/check-file-size")
	require.JSONEq(t, `{"fileSizeInBytes":20971520,"settingName":"FILE_UPLOAD_LIMIT"}`, string(call.Body))
}

func TestRecipients(t *testing.T) {
	doer := doerfake.New().
		On(http.MethodPost, "/api/mail-recipients", doerfake.Reply(http.StatusOK, settings.MailRecipient{ID: 3, Email: "qa@example.com", Type: settings.RecipientCC, Enabled: true})).
		On(http.MethodPost, "/api/mail-recipients/replace", doerfake.Reply(http.StatusOK, []settings.MailRecipient{}))
	svc := settings.NewService(doer)

	created, err := svc.CreateRecipient(context.Background(), settings.MailRecipient{Email: " qa@example.com ", Type: "cc", Enabled: true})
	require.NoError(t, err)
	require.Equal(t, int64(3), created.ID)
	call, _ := doer.Last(http.MethodPost, "/api/mail-recipients")
	require.JSONEq(t, `{"email":"qa@example.com","type":"CC","enabled":true}`, string(call.Body))

	_, err = svc.CreateRecipient(context.Background(), settings.MailRecipient{Email: "qa@example.com", Type: "REPLY_TO"})
	require.ErrorIs(t, err, consoleerrors.ErrInvalidRequest)

	_, err = svc.CreateRecipient(context.Background(), settings.MailRecipient{Email: "not an email", Type: settings.RecipientTo})
	require.ErrorIs(t, err, consoleerrors.ErrInvalidRequest)

	_, err = svc.ReplaceRecipients(context.Background(), []settings.MailRecipient{
		{Email: "a@example.com", Type: settings.RecipientTo},
		{Email: "b@example.com", Type: "bogus"},
	})
	require.ErrorIs(t, err, consoleerrors.ErrInvalidRequest)
	require.Len(t, doer.Calls(), 1, "invalid recipients never reach the backend")

	_, err = svc.ReplaceRecipients(context.Background(), nil)
	require.NoError(t, err)
	call, _ = doer.Last(http.MethodPost, "/api/mail-recipients/replace")
	require.JSONEq(t, `[]`, string(call.Body))
}

func TestCreateLimitValidation(t *testing.T) {
	doer := doerfake.New()
	_, err := settings.NewService(doer).CreateLimit(context.Background(), settings.LimitSize{SettingName: "X"})
	require.Error(t, err)
	require.Empty(t, doer.Calls())
}
