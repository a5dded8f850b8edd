package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/lock"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/publisher"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type PublishOptions struct {
	// Timeout bounds each platform call.
	Timeout time.Duration
	// Lease is how long a post may stay processing before another tick
	// may pick it up again.
	Lease     time.Duration
	BatchSize int
	Now       func() time.Time
}

func (o *PublishOptions) setDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.Lease <= 0 {
		o.Lease = 15 * time.Minute
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 10
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type PublishService interface {
	// PublishDue runs one scheduler tick over every due post.
	PublishDue(ctx context.Context) (*transfer.PublishSummary, error)
	// PublishPost claims and publishes a single post if it is due. It returns
	// nil when the post is missing, not due yet or owned by another worker.
	PublishPost(ctx context.Context, postID int64) (*transfer.PostResult, error)
}

type publishService struct {
	posts    repository.PostRepository
	history  repository.PostingHistoryRepository
	dir      *PlatformDirectory
	creds    CredentialResolver
	registry *publisher.Registry
	locker   lock.Locker
	opts     PublishOptions
}

func NewPublishService(
	posts repository.PostRepository,
	history repository.PostingHistoryRepository,
	dir *PlatformDirectory,
	creds CredentialResolver,
	registry *publisher.Registry,
	locker lock.Locker,
	opts PublishOptions) PublishService {
	opts.setDefaults()
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &publishService{
		posts:    posts,
		history:  history,
		dir:      dir,
		creds:    creds,
		registry: registry,
		locker:   locker,
		opts:     opts,
	}
}

func (s *publishService) PublishDue(ctx context.Context) (*transfer.PublishSummary, error) {
	unlock, ok, err := s.locker.TryLock(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire tick lock: %w", err)
	}
	if !ok {
		slog.Info("publish tick skipped, another tick is running")
		return &transfer.PublishSummary{Busy: true, Results: []transfer.PostResult{}}, nil
	}
	defer unlock()

	if err := s.dir.Reload(ctx); err != nil {
		slog.Warn("platform directory reload failed, using cached table", "error", err)
	}

	now := s.opts.Now()
	posts, err := s.posts.ListDue(ctx, now, now.Add(-s.opts.Lease), s.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list due posts: %w", err)
	}

	summary := &transfer.PublishSummary{Due: len(posts), Results: []transfer.PostResult{}}
	for _, post := range posts {
		if ctx.Err() != nil {
			slog.Warn("publish tick interrupted", "error", ctx.Err(), "remaining", len(posts)-summary.Processed-summary.Skipped)
			break
		}

		result, err := s.claimAndPublish(ctx, post)
		if err != nil {
			slog.Error("publish post failed", "post_id", post.ID, "error", err)
			summary.Skipped++
			continue
		}
		if result == nil {
			summary.Skipped++
			continue
		}
		summary.Processed++
		summary.Results = append(summary.Results, *result)
	}

	if summary.Due > 0 {
		slog.Info("publish tick finished", "due", summary.Due, "processed", summary.Processed, "skipped", summary.Skipped)
	}
	return summary, nil
}

func (s *publishService) PublishPost(ctx context.Context, postID int64) (*transfer.PostResult, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}
	if post == nil {
		return nil, nil
	}

	if err := s.dir.Reload(ctx); err != nil {
		slog.Warn("platform directory reload failed, using cached table", "error", err)
	}
	return s.claimAndPublish(ctx, post)
}

// claimAndPublish returns a nil result when the claim is lost.
func (s *publishService) claimAndPublish(ctx context.Context, post *models.Post) (*transfer.PostResult, error) {
	now := s.opts.Now()
	claimed, err := s.posts.Claim(ctx, post.ID, now, now.Add(-s.opts.Lease))
	if err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	if !claimed {
		slog.Debug("post not claimable", "post_id", post.ID, "status", post.Status)
		return nil, nil
	}

	results := s.publishAll(ctx, post)
	outcome := Aggregate(results, s.opts.Now())

	// Persist even if the tick context was cancelled mid-publish.
	writeCtx := context.WithoutCancel(ctx)
	s.recordHistory(writeCtx, post, results)
	if err := s.posts.Complete(writeCtx, post.ID, outcome); err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	slog.Info("post published", "post_id", post.ID, "status", outcome.Status)
	return toPostResult(post.ID, outcome, results), nil
}

// publishAll attempts every target platform in order. A platform that
// appears twice under different keys is published once.
func (s *publishService) publishAll(ctx context.Context, post *models.Post) []PlatformResult {
	results := make([]PlatformResult, 0, len(post.Platforms))
	seen := make(map[string]struct{}, len(post.Platforms))

	for _, target := range post.Platforms {
		platform, err := s.dir.Normalize(target)
		if err != nil {
			results = append(results, PlatformResult{Platform: target, Err: err})
			continue
		}
		if _, dup := seen[platform]; dup {
			continue
		}
		seen[platform] = struct{}{}

		results = append(results, s.publishTo(ctx, post, platform))
	}
	return results
}

func (s *publishService) publishTo(ctx context.Context, post *models.Post, platform string) PlatformResult {
	result := PlatformResult{Platform: platform}

	pub, err := s.registry.Get(platform)
	if err != nil {
		result.Err = err
		return result
	}

	cred, err := s.creds.Resolve(ctx, post.UserID, platform)
	if err != nil {
		result.Err = err
		return result
	}
	result.AccountID = cred.AccountID

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	remoteID, err := pub.Publish(callCtx, publisher.Message{
		Content:  post.Content,
		ImageURL: post.ImageURL,
	}, cred.Credential)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", s.opts.Timeout, err)
		}
		slog.Warn("platform publish failed", "post_id", post.ID, "platform", platform, "error", err)
		result.Err = err
		return result
	}

	result.RemoteID = remoteID
	return result
}

func (s *publishService) recordHistory(ctx context.Context, post *models.Post, results []PlatformResult) {
	if s.history == nil {
		return
	}
	for _, r := range results {
		ph := &models.PostingHistory{
			UserID:    post.UserID,
			PostID:    post.ID,
			AccountID: r.AccountID,
			Platform:  r.Platform,
			Success:   r.Err == nil,
			RemoteID:  r.RemoteID,
		}
		if r.Err != nil {
			ph.ErrorMessage = r.Err.Error()
		}
		if _, err := s.history.Create(ctx, ph); err != nil {
			slog.Warn("record posting history", "post_id", post.ID, "platform", r.Platform, "error", err)
		}
	}
}

func toPostResult(postID int64, outcome models.PostOutcome, results []PlatformResult) *transfer.PostResult {
	pr := &transfer.PostResult{
		PostID:       postID,
		Status:       outcome.Status,
		ErrorMessage: outcome.ErrorMessage,
		Platforms:    make([]transfer.PlatformOutcome, 0, len(results)),
	}
	for _, r := range results {
		po := transfer.PlatformOutcome{Platform: r.Platform, Success: r.Err == nil, RemoteID: r.RemoteID}
		if r.Err != nil {
			po.Error = r.Err.Error()
		}
		pr.Platforms = append(pr.Platforms, po)
	}
	return pr
}
