package transfer

import (
	"testing"
	"time"
)

func TestPostCreationValidate(t *testing.T) {
	valid := PostCreation{
		Content:       "Hello",
		Platforms:     []string{"facebook"},
		ScheduledTime: time.Now().Add(time.Hour),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]PostCreation{
		"empty content":  {Platforms: []string{"facebook"}, ScheduledTime: time.Now()},
		"no platforms":   {Content: "x", ScheduledTime: time.Now()},
		"blank platform": {Content: "x", Platforms: []string{""}, ScheduledTime: time.Now()},
		"no time":        {Content: "x", Platforms: []string{"facebook"}},
		"bad image url":  {Content: "x", Platforms: []string{"facebook"}, ScheduledTime: time.Now(), ImageURL: "not a url"},
	}
	for name, pc := range tests {
		if err := pc.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestTokenCreationValidate(t *testing.T) {
	if err := (TokenCreation{Platform: "facebook", TokenName: "main page", Token: "abc"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (TokenCreation{Platform: "facebook", TokenName: "main page"}).Validate(); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestRescheduleValidate(t *testing.T) {
	if err := (Reschedule{}).Validate(); err == nil {
		t.Fatal("expected error for zero scheduled time")
	}
}
