package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
)

// PlatformRepository reads the platforms lookup table that maps opaque
// numeric keys to platform names.
type PlatformRepository interface {
	List(ctx context.Context) ([]*models.Platform, error)
}

type platformRepository struct {
	db *sql.DB
}

func NewPlatformRepository(db *sql.DB) PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) List(ctx context.Context) ([]*models.Platform, error) {
	query := `SELECT id, name FROM platforms`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var platforms []*models.Platform
	for rows.Next() {
		var p models.Platform
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		platforms = append(platforms, &p)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return platforms, nil
}
