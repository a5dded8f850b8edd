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
	"github.com/maheshrc27/postflow/pkg/utils"
)

type TokenService interface {
	Create(ctx context.Context, userID int64, tc *transfer.TokenCreation) (*models.SocialAccount, error)
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	SetActive(ctx context.Context, accountID, userID int64, active bool) error
	Remove(ctx context.Context, accountID, userID int64) error
	DeactivateExpired(ctx context.Context) (int64, error)
}

type tokenService struct {
	sa  repository.SocialAccountRepository
	dir *PlatformDirectory
	key []byte
	now func() time.Time
}

func NewTokenService(sa repository.SocialAccountRepository, dir *PlatformDirectory, encryptionKey string) TokenService {
	return &tokenService{sa: sa, dir: dir, key: []byte(encryptionKey), now: time.Now}
}

// Create stores a credential with its tokens encrypted. The platform key is
// kept as given once it is known to resolve.
func (s *tokenService) Create(ctx context.Context, userID int64, tc *transfer.TokenCreation) (*models.SocialAccount, error) {
	if tc == nil {
		return nil, errors.New("token data is nil")
	}
	if _, err := s.dir.Normalize(tc.Platform); err != nil {
		return nil, err
	}

	accessToken, err := utils.Encrypt(tc.Token, s.key)
	if err != nil {
		return nil, fmt.Errorf("encrypt token: %w", err)
	}

	var pageToken string
	if tc.PageToken != "" {
		pageToken, err = utils.Encrypt(tc.PageToken, s.key)
		if err != nil {
			return nil, fmt.Errorf("encrypt page token: %w", err)
		}
	}

	account := &models.SocialAccount{
		UserID:          userID,
		Platform:        tc.Platform,
		TokenName:       tc.TokenName,
		AccessToken:     accessToken,
		PageID:          tc.PageID,
		PageAccessToken: pageToken,
		TokenExpiresAt:  tc.ExpiresAt,
		IsActive:        true,
	}

	id, err := s.sa.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error saving token: %w", err)
	}
	account.ID = id

	slog.Info("credential added", "account_id", id, "user_id", userID, "platform", tc.Platform)
	return account, nil
}

func (s *tokenService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	accounts, err := s.sa.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tokens: %w", err)
	}
	if accounts == nil {
		accounts = []*models.SocialAccount{}
	}
	return accounts, nil
}

func (s *tokenService) SetActive(ctx context.Context, accountID, userID int64, active bool) error {
	if err := s.checkOwner(ctx, accountID, userID); err != nil {
		return err
	}
	if err := s.sa.SetActive(ctx, accountID, active); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return ErrCredentialNotFound
		}
		return fmt.Errorf("error updating token: %w", err)
	}
	return nil
}

func (s *tokenService) Remove(ctx context.Context, accountID, userID int64) error {
	if err := s.checkOwner(ctx, accountID, userID); err != nil {
		return err
	}
	if err := s.sa.Remove(ctx, accountID); err != nil {
		return fmt.Errorf("error removing token: %w", err)
	}
	return nil
}

// DeactivateExpired turns off every credential whose expiry has passed.
func (s *tokenService) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := s.sa.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("deactivate expired tokens: %w", err)
	}
	return n, nil
}

func (s *tokenService) checkOwner(ctx context.Context, accountID, userID int64) error {
	if accountID == 0 || userID == 0 {
		return ErrCredentialNotFound
	}
	ok, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCredentialNotFound
	}
	return nil
}
