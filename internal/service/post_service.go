package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, error)
	List(ctx context.Context, userID int64, filter models.PostFilter) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Update(ctx context.Context, postID, userID int64, pc *transfer.PostCreation) (*models.Post, error)
	Reschedule(ctx context.Context, postID, userID int64, scheduledTime time.Time) (*models.Post, error)
	Remove(ctx context.Context, postID, userID int64) error
	History(ctx context.Context, postID, userID int64) ([]*models.PostingHistory, error)
	Stats(ctx context.Context, userID int64) (*models.PostStats, error)
}

type postService struct {
	pr  repository.PostRepository
	ph  repository.PostingHistoryRepository
	dir *PlatformDirectory
	now func() time.Time
}

func NewPostService(pr repository.PostRepository, ph repository.PostingHistoryRepository, dir *PlatformDirectory) PostService {
	return &postService{pr: pr, ph: ph, dir: dir, now: time.Now}
}

func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.Post, error) {
	if pc == nil {
		return nil, errors.New("post creation data is nil")
	}

	platforms, err := s.normalizePlatforms(pc.Platforms)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:        userID,
		Content:       pc.Content,
		Platforms:     platforms,
		ScheduledTime: pc.ScheduledTime.UTC(),
		ImageURL:      pc.ImageURL,
		ImagePrompt:   pc.ImagePrompt,
		AIModel:       pc.AIModel,
		Status:        models.PostStatusPending,
	}

	id, err := s.pr.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	post.ID = id

	slog.Info("post scheduled", "post_id", id, "user_id", userID, "scheduled_time", post.ScheduledTime)
	return post, nil
}

func (s *postService) List(ctx context.Context, userID int64, filter models.PostFilter) ([]*models.Post, error) {
	posts, err := s.pr.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if err := s.checkOwner(ctx, postID, userID); err != nil {
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Update edits a post that has not been picked up by the scheduler yet.
func (s *postService) Update(ctx context.Context, postID, userID int64, pc *transfer.PostCreation) (*models.Post, error) {
	post, err := s.PostInfo(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPending {
		return nil, ErrPostLocked
	}

	platforms, err := s.normalizePlatforms(pc.Platforms)
	if err != nil {
		return nil, err
	}

	post.Content = pc.Content
	post.Platforms = platforms
	post.ScheduledTime = pc.ScheduledTime.UTC()
	post.ImageURL = pc.ImageURL
	post.ImagePrompt = pc.ImagePrompt
	post.AIModel = pc.AIModel

	if err := s.pr.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrPostLocked
		}
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return post, nil
}

// Reschedule puts a pending, failed or partial post back in the queue.
func (s *postService) Reschedule(ctx context.Context, postID, userID int64, scheduledTime time.Time) (*models.Post, error) {
	if err := s.checkOwner(ctx, postID, userID); err != nil {
		return nil, err
	}

	if err := s.pr.Reschedule(ctx, postID, scheduledTime.UTC()); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrPostLocked
		}
		return nil, fmt.Errorf("error rescheduling post: %w", err)
	}

	return s.PostInfo(ctx, postID, userID)
}

func (s *postService) Remove(ctx context.Context, postID, userID int64) error {
	if err := s.checkOwner(ctx, postID, userID); err != nil {
		return err
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return ErrPostLocked
		}
		return fmt.Errorf("error removing post: %w", err)
	}
	return nil
}

func (s *postService) History(ctx context.Context, postID, userID int64) ([]*models.PostingHistory, error) {
	if err := s.checkOwner(ctx, postID, userID); err != nil {
		return nil, err
	}

	history, err := s.ph.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing posting history: %w", err)
	}
	if history == nil {
		history = []*models.PostingHistory{}
	}
	return history, nil
}

func (s *postService) Stats(ctx context.Context, userID int64) (*models.PostStats, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats, err := s.pr.Stats(ctx, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("error getting post stats: %w", err)
	}
	return stats, nil
}

func (s *postService) checkOwner(ctx context.Context, postID, userID int64) error {
	if userID == 0 || postID == 0 {
		return ErrPostNotFound
	}

	ok, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}

// normalizePlatforms maps each key to its canonical name and drops repeats,
// keeping the first occurrence order.
func (s *postService) normalizePlatforms(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, errors.New("at least one platform is required")
	}

	platforms := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		name, err := s.dir.Normalize(key)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		platforms = append(platforms, name)
	}
	return platforms, nil
}
