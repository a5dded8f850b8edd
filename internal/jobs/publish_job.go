package job

import (
	"context"

	"github.com/maheshrc27/postflow/internal/service"
)

const PublishJobName = "publish-due-posts"

type PublishJob struct {
	ps service.PublishService
}

func NewPublishJob(ps service.PublishService) *PublishJob {
	return &PublishJob{ps: ps}
}

func (j *PublishJob) Run(ctx context.Context) error {
	_, err := j.ps.PublishDue(ctx)
	return err
}
