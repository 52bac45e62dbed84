package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"serialfic-backend/internal/domains/tag"
	"serialfic-backend/pkg/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) tag.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO tags (tag_name) VALUES ($1)`, name)
	return err
}

func (r *postgresRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT tag_name FROM tags ORDER BY tag_name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
