package improvements

import (
	"github.com/jrsteele09/sop-console/internal/localtime"
)

// ProgressStatus is the state of one progress step.
type ProgressStatus int

const (
	ProgressNotStarted ProgressStatus = 0
	ProgressOngoing    ProgressStatus = 1
	ProgressCompleted  ProgressStatus = 2
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressNotStarted:
		return "not started"
	case ProgressOngoing:
		return "in progress"
	case ProgressCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MaxProgress is the ceiling on the completed percentages of one improvement.
const MaxProgress = 100

// Progress is one step in an improvement's history.
type Progress struct {
	ID        int64           `json:"id"`
	Percent   int             `json:"progressPercent"`
	Detail    string          `json:"progressDetail,omitempty"`
	Status    ProgressStatus  `json:"status"`
	CreatedBy *int64          `json:"createdBy,omitempty"`
	CreatedAt *localtime.Time `json:"createdAt,omitempty"`
}

// ProgressInput is the body of a progress create or update.
type ProgressInput struct {
	Percent   int            `json:"percent"`
	Detail    *string        `json:"detail"`
	Status    ProgressStatus `json:"status"`
	CreatedBy *int64         `json:"createdBy,omitempty"`
	UpdatedBy *int64         `json:"updatedBy,omitempty"`
}

// CompletedTotal sums the percentages of completed steps.
func CompletedTotal(history []Progress) int {
	total := 0
	for _, p := range history {
		if p.Status == ProgressCompleted {
			total += p.Percent
		}
	}
	return total
}

// Overall is the progress shown for an improvement: the completed total
// clamped to [0, MaxProgress].
func Overall(history []Progress) int {
	return min(max(CompletedTotal(history), 0), MaxProgress)
}

// Remaining is how many percentage points can still be added.
func Remaining(history []Progress) int {
	return max(MaxProgress-CompletedTotal(history), 0)
}
