package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
)

type fakePostRepo struct {
	mu     sync.Mutex
	posts  map[int64]*models.Post
	nextID int64
	writes int
}

func newFakePostRepo(posts ...*models.Post) *fakePostRepo {
	r := &fakePostRepo{posts: make(map[int64]*models.Post)}
	for _, p := range posts {
		r.nextID++
		if p.ID == 0 {
			p.ID = r.nextID
		}
		if p.Status == "" {
			p.Status = models.PostStatusPending
		}
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) get(id int64) models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.posts[id]
}

func (r *fakePostRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.nextID++
	cp := *post
	cp.ID = r.nextID
	cp.Status = models.PostStatusPending
	r.posts[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakePostRepo) ListByUserID(ctx context.Context, userID int64, filter models.PostFilter) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if p.UserID != userID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && p.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Content), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[post.ID]
	if !ok || p.Status != models.PostStatusPending {
		return repository.ErrNoRowsAffected
	}
	r.writes++
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	return ok && p.UserID == userID, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.Status == models.PostStatusProcessing {
		return repository.ErrNoRowsAffected
	}
	r.writes++
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) eligible(p *models.Post, now, staleBefore time.Time) bool {
	switch p.Status {
	case models.PostStatusPending:
		return !p.ScheduledTime.After(now)
	case models.PostStatusProcessing:
		return p.ProcessingStartedAt != nil && p.ProcessingStartedAt.Before(staleBefore)
	}
	return false
}

func (r *fakePostRepo) ListDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for _, p := range r.posts {
		if r.eligible(p, now, staleBefore) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime.Before(out[j].ScheduledTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) Claim(ctx context.Context, id int64, now, staleBefore time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || !r.eligible(p, now, staleBefore) {
		return false, nil
	}
	r.writes++
	started := now
	p.Status = models.PostStatusProcessing
	p.ProcessingStartedAt = &started
	return true, nil
}

func (r *fakePostRepo) Complete(ctx context.Context, id int64, outcome models.PostOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	r.writes++
	p.Status = outcome.Status
	p.PostedAt = outcome.PostedAt
	p.ErrorMessage = outcome.ErrorMessage
	p.ProcessingStartedAt = nil
	return nil
}

func (r *fakePostRepo) Reschedule(ctx context.Context, id int64, scheduledTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return repository.ErrNoRowsAffected
	}
	switch p.Status {
	case models.PostStatusPending, models.PostStatusFailed, models.PostStatusPartial:
	default:
		return repository.ErrNoRowsAffected
	}
	r.writes++
	p.Status = models.PostStatusPending
	p.ScheduledTime = scheduledTime
	p.ErrorMessage = ""
	p.PostedAt = nil
	return nil
}

func (r *fakePostRepo) Stats(ctx context.Context, userID int64, monthStart time.Time) (*models.PostStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s models.PostStats
	for _, p := range r.posts {
		if p.UserID != userID {
			continue
		}
		s.TotalPosts++
		switch p.Status {
		case models.PostStatusPending:
			s.PendingPosts++
		case models.PostStatusPosted:
			s.SuccessfulPosts++
		case models.PostStatusPartial:
			s.PartialPosts++
		case models.PostStatusFailed:
			s.FailedPosts++
		}
		if p.ImageURL != "" {
			s.TotalImages++
		}
		if !p.CreatedAt.Before(monthStart) {
			s.PostsThisMonth++
		}
	}
	return &s, nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts []*models.SocialAccount
}

func (r *fakeAccountRepo) Create(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sa
	cp.ID = int64(len(r.accounts) + 1)
	r.accounts = append(r.accounts, &cp)
	return cp.ID, nil
}

func (r *fakeAccountRepo) find(id int64) *models.SocialAccount {
	for _, a := range r.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(id), nil
}

func (r *fakeAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SocialAccount
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) ListActiveByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SocialAccount
	for _, a := range r.accounts {
		if a.UserID == userID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.find(accountID)
	return a != nil && a.UserID == userID, nil
}

func (r *fakeAccountRepo) SetActive(ctx context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.find(id)
	if a == nil {
		return repository.ErrNoRowsAffected
	}
	a.IsActive = active
	return nil
}

func (r *fakeAccountRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.accounts {
		if a.IsActive && a.TokenExpiresAt != nil && a.TokenExpiresAt.Before(now) {
			a.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeAccountRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.accounts {
		if a.ID == id {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []*models.PostingHistory
}

func (r *fakeHistoryRepo) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ph
	cp.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, &cp)
	return cp.ID, nil
}

func (r *fakeHistoryRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PostingHistory
	for _, e := range r.entries {
		if e.PostID == postID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePlatformRepo struct {
	platforms []*models.Platform
	err       error
}

func (r *fakePlatformRepo) List(ctx context.Context) ([]*models.Platform, error) {
	return r.platforms, r.err
}
