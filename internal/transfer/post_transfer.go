package transfer

import (
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type PostCreation struct {
	Content       string    `json:"content"`
	Platforms     []string  `json:"platforms"`
	ScheduledTime time.Time `json:"scheduled_time"`
	ImageURL      string    `json:"image_url"`
	ImagePrompt   string    `json:"image_prompt"`
	AIModel       string    `json:"ai_model"`
}

func (p PostCreation) Validate() error {
	return v.ValidateStruct(&p,
		v.Field(&p.Content, v.Required, v.Length(1, 5000)),
		v.Field(&p.Platforms, v.Required, v.Each(v.Required)),
		v.Field(&p.ScheduledTime, v.Required),
		v.Field(&p.ImageURL, is.URL),
		v.Field(&p.AIModel, v.Length(0, 100)),
	)
}

type Reschedule struct {
	ScheduledTime time.Time `json:"scheduled_time"`
}

func (r Reschedule) Validate() error {
	return v.ValidateStruct(&r,
		v.Field(&r.ScheduledTime, v.Required),
	)
}

type PostResponse struct {
	Message string `json:"message"`
	PostID  int64  `json:"post_id"`
}
