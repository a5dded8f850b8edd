package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/transfer"
	"github.com/maheshrc27/postflow/pkg/utils"
)

func TestTokenServiceCreateEncrypts(t *testing.T) {
	repo := &fakeAccountRepo{}
	s := NewTokenService(repo, NewPlatformDirectory(nil), testEncryptionKey)

	acc, err := s.Create(context.Background(), 1, &transfer.TokenCreation{
		Platform:  "facebook",
		TokenName: "Main page",
		Token:     "user-token",
		PageID:    "123",
		PageToken: "page-token",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !acc.IsActive {
		t.Fatal("new credential should be active")
	}

	stored := repo.accounts[0]
	if stored.AccessToken == "user-token" || stored.PageAccessToken == "page-token" {
		t.Fatal("tokens must be stored encrypted")
	}
	plain, err := utils.Decrypt(stored.PageAccessToken, []byte(testEncryptionKey))
	if err != nil || plain != "page-token" {
		t.Fatalf("decrypted page token = %q, %v", plain, err)
	}
}

func TestTokenServiceCreateUnknownPlatform(t *testing.T) {
	s := NewTokenService(&fakeAccountRepo{}, NewPlatformDirectory(nil), testEncryptionKey)
	_, err := s.Create(context.Background(), 1, &transfer.TokenCreation{Platform: "42", TokenName: "x", Token: "y"})
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("error = %v, want ErrUnknownPlatform", err)
	}
}

func TestTokenServiceSetActiveChecksOwner(t *testing.T) {
	repo := &fakeAccountRepo{accounts: []*models.SocialAccount{{ID: 1, UserID: 1, Platform: "facebook", IsActive: true}}}
	s := NewTokenService(repo, NewPlatformDirectory(nil), testEncryptionKey)

	if err := s.SetActive(context.Background(), 1, 2, false); !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("foreign SetActive error = %v, want ErrCredentialNotFound", err)
	}
	if err := s.SetActive(context.Background(), 1, 1, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if repo.accounts[0].IsActive {
		t.Fatal("credential should be inactive")
	}
}

func TestTokenServiceDeactivateExpired(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)
	repo := &fakeAccountRepo{accounts: []*models.SocialAccount{
		{ID: 1, UserID: 1, IsActive: true, TokenExpiresAt: &past},
		{ID: 2, UserID: 1, IsActive: true, TokenExpiresAt: &future},
		{ID: 3, UserID: 1, IsActive: true},
	}}
	s := NewTokenService(repo, NewPlatformDirectory(nil), testEncryptionKey).(*tokenService)
	s.now = func() time.Time { return testNow }

	n, err := s.DeactivateExpired(context.Background())
	if err != nil {
		t.Fatalf("DeactivateExpired: %v", err)
	}
	if n != 1 || repo.accounts[0].IsActive || !repo.accounts[1].IsActive || !repo.accounts[2].IsActive {
		t.Fatalf("n = %d, accounts = %+v %+v %+v", n, repo.accounts[0], repo.accounts[1], repo.accounts[2])
	}
}
