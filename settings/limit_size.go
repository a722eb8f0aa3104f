package settings

import "github.com/jrsteele09/sop-console/internal/localtime"

// FileUploadLimitName is the setting that caps attachment size.
const FileUploadLimitName = "FILE_UPLOAD_LIMIT"

// DefaultUploadLimitMB applies when the backend cannot say.
const DefaultUploadLimitMB = 10

// LimitSize is a named size cap.
type LimitSize struct {
	ID          int64           `json:"id,omitempty"`
	SettingName string          `json:"settingName"`
	MaxSizeMB   int64           `json:"maxSizeMb"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedBy   *int64          `json:"createdBy,omitempty"`
	CreatedAt   *localtime.Time `json:"createdAt,omitempty"`
	UpdatedAt   *localtime.Time `json:"updatedAt,omitempty"`
}

// UploadLimit is the effective attachment cap.
type UploadLimit struct {
	MaxSizeMB    int64 `json:"maxSizeMb"`
	MaxSizeBytes int64 `json:"maxSizeBytes"`
}

// DefaultUploadLimit is 10 MB.
func DefaultUploadLimit() UploadLimit {
	return UploadLimit{MaxSizeMB: DefaultUploadLimitMB, MaxSizeBytes: DefaultUploadLimitMB * 1024 * 1024}
}

// Allows reports whether a file of size bytes fits.
func (l UploadLimit) Allows(size int64) bool {
	return size <= l.MaxSizeBytes
}

// SizeCheck is the backend's verdict on a file size.
type SizeCheck struct {
	IsExceeded      bool   `json:"isExceeded"`
	FileSizeInBytes int64  `json:"fileSizeInBytes"`
	FileSizeInMB    string `json:"fileSizeInMB"`
	SettingName     string `json:"settingName"`
}
