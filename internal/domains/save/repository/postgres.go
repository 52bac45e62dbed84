package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"serialfic-backend/internal/domains/save"
	"serialfic-backend/pkg/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) save.Repository {
	return &postgresRepository{db: db}
}

// Save only shelves published books, or the user's own drafts.
func (r *postgresRepository) Save(ctx context.Context, uid, bid uuid.UUID, status save.Status) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO book_saves (uid, bid, status)
		SELECT $1, bid, $3::save_status FROM books
		WHERE bid = $2 AND (published_at IS NOT NULL OR written_by = $1)`,
		uid, bid, string(status),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) Get(ctx context.Context, uid, bid uuid.UUID) (*save.Save, error) {
	var s save.Save
	err := r.db.QueryRow(ctx,
		`SELECT bid, status::text, saved_at FROM book_saves WHERE uid = $1 AND bid = $2`, uid, bid,
	).Scan(&s.BID, &s.Status, &s.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) List(ctx context.Context, uid uuid.UUID) ([]save.Save, error) {
	rows, err := r.db.Query(ctx, `
		SELECT bid, status::text, saved_at FROM book_saves
		WHERE uid = $1
		ORDER BY saved_at DESC, bid`, uid)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[save.Save])
}

func (r *postgresRepository) Update(ctx context.Context, uid, bid uuid.UUID, status save.Status) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE book_saves SET status = $3::save_status WHERE uid = $1 AND bid = $2`,
		uid, bid, string(status),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) Delete(ctx context.Context, uid, bid uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM book_saves WHERE uid = $1 AND bid = $2`, uid, bid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
