// Package settings manages the admin-only console settings: size limits and
// mail recipients.
package settings

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/rs/zerolog/log"
)

const (
	limitSizePath      = "/api/limit-size"
	mailRecipientsPath = "/api/mail-recipients"
)

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// ListLimits returns every size limit, active or not.
func (s *Service) ListLimits(ctx context.Context) ([]LimitSize, error) {
	var out []LimitSize
	if err := apiclient.GetJSON(ctx, s.api, limitSizePath, nil, &out); err != nil {
		return nil, fmt.Errorf("[settings ListLimits] %w", err)
	}
	return out, nil
}

func (s *Service) ActiveLimits(ctx context.Context) ([]LimitSize, error) {
	var out []LimitSize
	if err := apiclient.GetJSON(ctx, s.api, limitSizePath+"/active", nil, &out); err != nil {
		return nil, fmt.Errorf("[settings ActiveLimits] %w", err)
	}
	return out, nil
}

func (s *Service) GetLimit(ctx context.Context, id int64) (LimitSize, error) {
	var out LimitSize
	if err := apiclient.GetJSON(ctx, s.api, limitPath(id), nil, &out); err != nil {
		return LimitSize{}, fmt.Errorf("[settings GetLimit] %d: %w", id, err)
	}
	return out, nil
}

// FileUploadLimit returns the attachment cap. It never fails: any problem
// reading it falls back to DefaultUploadLimit.
func (s *Service) FileUploadLimit(ctx context.Context) UploadLimit {
	var out UploadLimit
	if err := apiclient.GetJSON(ctx, s.api, limitSizePath+"/file-upload-limit", nil, &out); err != nil {
		log.Warn().Err(err).Msg("failed to read the file upload limit, using the default")
		return DefaultUploadLimit()
	}
	if out.MaxSizeBytes <= 0 {
		if out.MaxSizeMB <= 0 {
			return DefaultUploadLimit()
		}
		out.MaxSizeBytes = out.MaxSizeMB * 1024 * 1024
	}
	return out
}

func (s *Service) CreateLimit(ctx context.Context, l LimitSize) (LimitSize, error) {
	if l.SettingName == "" || l.MaxSizeMB <= 0 {
		return LimitSize{}, fmt.Errorf("[settings CreateLimit] setting name and a positive size are required")
	}
	var out LimitSize
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, limitSizePath, l, &out); err != nil {
		return LimitSize{}, fmt.Errorf("[settings CreateLimit] %w", err)
	}
	return out, nil
}

func (s *Service) UpdateLimit(ctx context.Context, id int64, l LimitSize) (LimitSize, error) {
	if l.MaxSizeMB <= 0 {
		return LimitSize{}, fmt.Errorf("[settings UpdateLimit] a positive size is required")
	}
	var out LimitSize
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPut, limitPath(id), l, &out); err != nil {
		return LimitSize{}, fmt.Errorf("[settings UpdateLimit] %d: %w", id, err)
	}
	return out, nil
}

// DeleteLimit deactivates a limit. The backend keeps the record.
func (s *Service) DeleteLimit(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, limitPath(id), nil, nil); err != nil {
		return fmt.Errorf("[settings DeleteLimit] %d: %w", id, err)
	}
	return nil
}

func (s *Service) PermanentDeleteLimit(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, limitPath(id)+"/permanent", nil, nil); err != nil {
		return fmt.Errorf("[settings PermanentDeleteLimit] %d: %w", id, err)
	}
	return nil
}

func (s *Service) ToggleLimit(ctx context.Context, id int64) (LimitSize, error) {
	var out LimitSize
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPatch, limitPath(id)+"/toggle", nil, &out); err != nil {
		return LimitSize{}, fmt.Errorf("[settings ToggleLimit] %d: %w", id, err)
	}
	return out, nil
}

// CheckFileSize asks the backend whether size exceeds the named setting. An
// empty name checks FILE_UPLOAD_LIMIT.
func (s *Service) CheckFileSize(ctx context.Context, size int64, settingName string) (SizeCheck, error) {
	if settingName == "" {
		settingName = FileUploadLimitName
	}
	var out SizeCheck
	body := map[string]any{"fileSizeInBytes": size, "settingName": settingName}
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, limitSizePath+"/check-file-size", body, &out); err != nil {
		return SizeCheck{}, fmt.Errorf("[settings CheckFileSize] %w", err)
	}
	return out, nil
}

// InitDefaults asks the backend to create FILE_UPLOAD_LIMIT if it is missing.
func (s *Service) InitDefaults(ctx context.Context) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, limitSizePath+"/init-default", nil, nil); err != nil {
		return fmt.Errorf("[settings InitDefaults] %w", err)
	}
	return nil
}

// EnsureDefaults creates the default upload limit when no active one exists.
// Failures are logged and otherwise ignored; it reports whether the defaults
// were initialised.
func (s *Service) EnsureDefaults(ctx context.Context) bool {
	active, err := s.ActiveLimits(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read active size limits")
		return false
	}
	for _, l := range active {
		if l.SettingName == FileUploadLimitName {
			return false
		}
	}
	if err := s.InitDefaults(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to initialise the default size limit")
		return false
	}
	log.Info().Str("setting", FileUploadLimitName).Msg("initialised default size limit")
	return true
}

func (s *Service) ListRecipients(ctx context.Context) ([]MailRecipient, error) {
	var out []MailRecipient
	if err := apiclient.GetJSON(ctx, s.api, mailRecipientsPath, nil, &out); err != nil {
		return nil, fmt.Errorf("[settings ListRecipients] %w", err)
	}
	return out, nil
}

func (s *Service) EnabledRecipients(ctx context.Context) ([]MailRecipient, error) {
	var out []MailRecipient
	if err := apiclient.GetJSON(ctx, s.api, mailRecipientsPath+"/enabled", nil, &out); err != nil {
		return nil, fmt.Errorf("[settings EnabledRecipients] %w", err)
	}
	return out, nil
}

func (s *Service) CreateRecipient(ctx context.Context, r MailRecipient) (MailRecipient, error) {
	if err := r.Validate(); err != nil {
		return MailRecipient{}, fmt.Errorf("[settings CreateRecipient] %w", err)
	}
	var out MailRecipient
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, mailRecipientsPath, r, &out); err != nil {
		return MailRecipient{}, fmt.Errorf("[settings CreateRecipient] %w", err)
	}
	return out, nil
}

func (s *Service) UpdateRecipient(ctx context.Context, id int64, r MailRecipient) (MailRecipient, error) {
	if err := r.Validate(); err != nil {
		return MailRecipient{}, fmt.Errorf("[settings UpdateRecipient] %w", err)
	}
	var out MailRecipient
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPut, recipientPath(id), r, &out); err != nil {
		return MailRecipient{}, fmt.Errorf("[settings UpdateRecipient] %d: %w", id, err)
	}
	return out, nil
}

func (s *Service) DeleteRecipient(ctx context.Context, id int64) error {
	if err := apiclient.SendJSON(ctx, s.api, http.MethodDelete, recipientPath(id), nil, nil); err != nil {
		return fmt.Errorf("[settings DeleteRecipient] %d: %w", id, err)
	}
	return nil
}

// ReplaceRecipients swaps the whole recipient list in one call.
func (s *Service) ReplaceRecipients(ctx context.Context, recipients []MailRecipient) ([]MailRecipient, error) {
	if err := validateAll(recipients); err != nil {
		return nil, fmt.Errorf("[settings ReplaceRecipients] %w", err)
	}
	if recipients == nil {
		recipients = []MailRecipient{}
	}
	var out []MailRecipient
	if err := apiclient.SendJSON(ctx, s.api, http.MethodPost, mailRecipientsPath+"/replace", recipients, &out); err != nil {
		return nil, fmt.Errorf("[settings ReplaceRecipients] %w", err)
	}
	return out, nil
}

func limitPath(id int64) string {
	return limitSizePath + "/" + strconv.FormatInt(id, 10)
}

func recipientPath(id int64) string {
	return mailRecipientsPath + "/" + strconv.FormatInt(id, 10)
}
