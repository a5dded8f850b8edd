package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maheshrc27/postflow/internal/models"
)

func TestCredentialResolverDecryptsTokens(t *testing.T) {
	accounts := &fakeAccountRepo{accounts: []*models.SocialAccount{
		account(t, 1, "instagram", "user-token", "ig-1", "page-token"),
	}}
	r := NewCredentialResolver(accounts, NewPlatformDirectory(nil), testEncryptionKey)

	got, err := r.Resolve(context.Background(), 1, "instagram")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.AccountID != 1 {
		t.Fatalf("account id = %d, want 1", got.AccountID)
	}
	c := got.Credential
	if c.AccessToken != "user-token" || c.PageToken != "page-token" || c.PageID != "ig-1" {
		t.Fatalf("credential = %+v", c)
	}
}

func TestCredentialResolverPicksFirstMatch(t *testing.T) {
	accounts := &fakeAccountRepo{accounts: []*models.SocialAccount{
		account(t, 1, "twitter", "tw", "", ""),
		account(t, 2, "unknown-key", "x", "", ""),
		account(t, 3, "facebook", "newest", "p", ""),
		account(t, 4, "facebook", "older", "p", ""),
	}}
	r := NewCredentialResolver(accounts, NewPlatformDirectory(nil), testEncryptionKey)

	got, err := r.Resolve(context.Background(), 1, "facebook")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.AccountID != 3 || got.Credential.AccessToken != "newest" {
		t.Fatalf("resolved = %+v", got)
	}
}

func TestCredentialResolverMissing(t *testing.T) {
	r := NewCredentialResolver(&fakeAccountRepo{}, NewPlatformDirectory(nil), testEncryptionKey)

	_, err := r.Resolve(context.Background(), 1, "linkedin")
	if !errors.Is(err, ErrNoActiveCredential) {
		t.Fatalf("error = %v, want ErrNoActiveCredential", err)
	}
	if err.Error() != "no active token found for linkedin" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestCredentialResolverBadCiphertext(t *testing.T) {
	accounts := &fakeAccountRepo{accounts: []*models.SocialAccount{{
		ID: 1, UserID: 1, Platform: "facebook", AccessToken: "not-encrypted", IsActive: true,
	}}}
	r := NewCredentialResolver(accounts, NewPlatformDirectory(nil), testEncryptionKey)

	if _, err := r.Resolve(context.Background(), 1, "facebook"); err == nil {
		t.Fatal("expected decrypt error")
	}
}
