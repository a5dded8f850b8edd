package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

type Client struct {
	asynq *asynq.Client
}

func NewClient(asynqClient *asynq.Client) *Client {
	return &Client{asynq: asynqClient}
}

// NewPublishPostTask builds the wake-up task for postID at the given time.
// The task id is derived from both so rescheduling creates a new task while
// duplicate enqueues for the same slot collapse.
func NewPublishPostTask(postID int64, at time.Time) (*asynq.Task, []asynq.Option, error) {
	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return nil, nil, err
	}

	opts := []asynq.Option{
		asynq.ProcessAt(at),
		asynq.TaskID(taskID(postID, at)),
		asynq.MaxRetry(3),
		asynq.Retention(24 * time.Hour),
	}
	return asynq.NewTask(TaskTypePublishPost, payload), opts, nil
}

func (q *Client) EnqueuePost(ctx context.Context, postID int64, at time.Time) error {
	task, opts, err := NewPublishPostTask(postID, at)
	if err != nil {
		return err
	}

	info, err := q.asynq.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		slog.Info(err.Error())
		return err
	}

	slog.Debug("publish task scheduled", "post_id", postID, "task_id", info.ID, "process_at", info.NextProcessAt)
	return nil
}
