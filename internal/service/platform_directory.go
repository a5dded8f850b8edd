package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
)

// PlatformDirectory maps stored platform keys to canonical platform names.
// Keys are either a canonical name or an id from the platforms table.
type PlatformDirectory struct {
	repo repository.PlatformRepository

	mu   sync.RWMutex
	byID map[int64]string
}

func NewPlatformDirectory(repo repository.PlatformRepository) *PlatformDirectory {
	return &PlatformDirectory{repo: repo, byID: make(map[int64]string)}
}

// Reload replaces the id table from the repository. On error the previous
// table stays in place.
func (d *PlatformDirectory) Reload(ctx context.Context) error {
	if d.repo == nil {
		return nil
	}

	platforms, err := d.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load platforms: %w", err)
	}

	byID := make(map[int64]string, len(platforms))
	for _, p := range platforms {
		byID[p.ID] = strings.ToLower(strings.TrimSpace(p.Name))
	}

	d.mu.Lock()
	d.byID = byID
	d.mu.Unlock()
	return nil
}

func (d *PlatformDirectory) Normalize(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, name := range models.CanonicalPlatforms {
		if k == name {
			return name, nil
		}
	}

	if id, err := strconv.ParseInt(k, 10, 64); err == nil {
		d.mu.RLock()
		name, ok := d.byID[id]
		d.mu.RUnlock()
		if ok && name != "" {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, key)
}
