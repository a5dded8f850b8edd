package service

import (
	"strings"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

// PlatformResult is the outcome of one platform attempt for a post.
type PlatformResult struct {
	Platform  string
	AccountID int64
	RemoteID  string
	Err       error
}

// Aggregate folds per-platform results into the post's final state.
func Aggregate(results []PlatformResult, now time.Time) models.PostOutcome {
	if len(results) == 0 {
		return models.PostOutcome{
			Status:       models.PostStatusFailed,
			ErrorMessage: "no platforms selected",
		}
	}

	var failed, reasons []string
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		failed = append(failed, r.Platform)
		reasons = append(reasons, r.Platform+": "+r.Err.Error())
	}

	switch {
	case len(failed) == 0:
		postedAt := now
		return models.PostOutcome{Status: models.PostStatusPosted, PostedAt: &postedAt}
	case len(failed) < len(results):
		return models.PostOutcome{
			Status:       models.PostStatusPartial,
			ErrorMessage: "Failed on: " + strings.Join(failed, ", "),
		}
	default:
		return models.PostOutcome{
			Status:       models.PostStatusFailed,
			ErrorMessage: strings.Join(reasons, "; "),
		}
	}
}
