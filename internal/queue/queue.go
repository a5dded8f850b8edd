package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}

// Enqueuer schedules an exact-time wake-up for a post. The cron tick still
// publishes the post if the wake-up is lost.
type Enqueuer interface {
	EnqueuePost(ctx context.Context, postID int64, at time.Time) error
}

func taskID(postID int64, at time.Time) string {
	return fmt.Sprintf("%s:%d:%d", TaskTypePublishPost, postID, at.Unix())
}

func decodePayload(data []byte) (PublishPostPayload, error) {
	var payload PublishPostPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, err
	}
	if payload.PostID <= 0 {
		return payload, fmt.Errorf("invalid post id %d", payload.PostID)
	}
	return payload, nil
}
