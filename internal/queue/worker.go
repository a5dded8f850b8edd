package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postflow/internal/service"
)

type Worker struct {
	publish service.PublishService
}

func NewWorker(publish service.PublishService) *Worker {
	return &Worker{publish: publish}
}

func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypePublishPost, w.HandlePublishPostTask)
}

// HandlePublishPostTask publishes the post if it is still due. Malformed
// payloads are not retried.
func (w *Worker) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task.Payload())
	if err != nil {
		return fmt.Errorf("decode publish payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := w.publish.PublishPost(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if result == nil {
		slog.Debug("publish task found nothing to do", "post_id", payload.PostID)
		return nil
	}

	slog.Info("publish task finished", "post_id", payload.PostID, "status", result.Status)
	return nil
}
