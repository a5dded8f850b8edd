package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/publisher"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/pkg/utils"
)

type ResolvedCredential struct {
	AccountID  int64
	Credential publisher.Credential
}

type CredentialResolver interface {
	Resolve(ctx context.Context, userID int64, platform string) (*ResolvedCredential, error)
}

type credentialResolver struct {
	accounts repository.SocialAccountRepository
	dir      *PlatformDirectory
	key      []byte
}

func NewCredentialResolver(accounts repository.SocialAccountRepository, dir *PlatformDirectory, encryptionKey string) CredentialResolver {
	return &credentialResolver{accounts: accounts, dir: dir, key: []byte(encryptionKey)}
}

// Resolve picks the most recently updated active credential of the user for
// platform and decrypts it. Decrypted tokens live only in the returned value.
func (r *credentialResolver) Resolve(ctx context.Context, userID int64, platform string) (*ResolvedCredential, error) {
	accounts, err := r.accounts.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	for _, acc := range accounts {
		name, err := r.dir.Normalize(acc.Platform)
		if err != nil {
			if errors.Is(err, ErrUnknownPlatform) {
				slog.Warn("credential has unknown platform key", "account_id", acc.ID, "platform", acc.Platform)
				continue
			}
			return nil, err
		}
		if name != platform {
			continue
		}

		accessToken, err := utils.Decrypt(acc.AccessToken, r.key)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s token: %w", platform, err)
		}
		pageToken, err := utils.DecryptOptional(acc.PageAccessToken, r.key)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s page token: %w", platform, err)
		}

		return &ResolvedCredential{
			AccountID: acc.ID,
			Credential: publisher.Credential{
				AccessToken: accessToken,
				PageID:      acc.PageID,
				PageToken:   pageToken,
			},
		}, nil
	}

	return nil, fmt.Errorf("%w for %s", ErrNoActiveCredential, platform)
}
