package service

import "errors"

var (
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrNoActiveCredential = errors.New("no active token found")
	ErrPostNotFound       = errors.New("post not found")
	ErrPostLocked         = errors.New("post can no longer be changed")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrMediaNotConfigured = errors.New("media storage is not configured")
)
