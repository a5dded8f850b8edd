package job

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/service"
)

const CredentialExpiryJobName = "deactivate-expired-credentials"

// CredentialExpiryJob turns off credentials past their expiry so publishing
// reports a missing token instead of calling the platform with a dead one.
type CredentialExpiryJob struct {
	ts service.TokenService
}

func NewCredentialExpiryJob(ts service.TokenService) *CredentialExpiryJob {
	return &CredentialExpiryJob{ts: ts}
}

func (j *CredentialExpiryJob) Run(ctx context.Context) error {
	n, err := j.ts.DeactivateExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("deactivated expired credentials", "count", n)
	}
	return nil
}
