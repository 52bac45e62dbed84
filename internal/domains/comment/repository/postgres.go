package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"serialfic-backend/internal/domains/comment"
	"serialfic-backend/pkg/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) comment.Repository {
	return &postgresRepository{db: db}
}

const selectComments = `
	SELECT c.cid, c.bid, c.number, c.posted_by, u.username, c.message, c.replies_to, c.likes,
		(SELECT COUNT(*) FROM comments r WHERE r.replies_to = c.cid) AS replies,
		c.posted_at
	FROM comments c JOIN users u ON u.uid = c.posted_by`

// publishedChapter selects the chapter $1/$2 when it and its book are published.
const publishedChapter = `
	SELECT ch.bid, ch.number FROM chapters ch JOIN books b ON b.bid = ch.bid
	WHERE ch.bid = $1 AND ch.number = $2
		AND ch.published_at IS NOT NULL AND b.published_at IS NOT NULL`

func (r *postgresRepository) collect(ctx context.Context, query string, args ...any) ([]comment.Comment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[comment.Comment])
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) List(ctx context.Context, bid uuid.UUID, number int) ([]comment.Comment, error) {
	return r.collect(ctx, selectComments+`
		WHERE c.bid = $1 AND c.number = $2 AND c.replies_to IS NULL
		ORDER BY c.posted_at ASC, c.cid ASC`, bid, number)
}

func (r *postgresRepository) Replies(ctx context.Context, t comment.Target) ([]comment.Comment, error) {
	return r.collect(ctx, selectComments+`
		WHERE c.bid = $1 AND c.number = $2 AND c.replies_to = $3
		ORDER BY c.posted_at ASC, c.cid ASC`, t.BID, t.Number, t.CID)
}

func (r *postgresRepository) Exists(ctx context.Context, t comment.Target) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM comments WHERE bid = $1 AND number = $2 AND cid = $3)`,
		t.BID, t.Number, t.CID,
	).Scan(&exists)
	return exists, err
}

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, uid, bid uuid.UUID, number int, message string, repliesTo *uuid.UUID) (uuid.UUID, bool, error) {
	var cid uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (bid, number, posted_by, message, replies_to)
		SELECT t.bid, t.number, $3, $4, $5::uuid
		FROM (`+publishedChapter+`) t
		WHERE $5::uuid IS NULL OR EXISTS (
			SELECT 1 FROM comments p WHERE p.cid = $5::uuid AND p.bid = t.bid AND p.number = t.number
		)
		RETURNING cid`,
		bid, number, uid, message, repliesTo,
	).Scan(&cid)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return cid, true, nil
}

func (r *postgresRepository) Update(ctx context.Context, uid uuid.UUID, t comment.Target, message string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE comments SET message = $5
		WHERE bid = $1 AND number = $2 AND cid = $3 AND posted_by = $4`,
		t.BID, t.Number, t.CID, uid, message,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) Delete(ctx context.Context, uid uuid.UUID, t comment.Target) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM comments WHERE bid = $1 AND number = $2 AND cid = $3 AND posted_by = $4`,
		t.BID, t.Number, t.CID, uid,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ========================================
// LIKES
// ========================================

const likeableComment = `
	SELECT c.cid FROM comments c JOIN (` + publishedChapter + `) ch
		ON ch.bid = c.bid AND ch.number = c.number
	WHERE c.cid = $3`

func (r *postgresRepository) Like(ctx context.Context, uid uuid.UUID, t comment.Target) (int, bool, error) {
	return r.adjustLikes(ctx, `
		WITH target AS (`+likeableComment+`),
		changed AS (
			INSERT INTO comment_likes (uid, cid)
			SELECT $4, cid FROM target
			ON CONFLICT DO NOTHING
			RETURNING cid
		)
		UPDATE comments c SET likes = c.likes + 1
		FROM changed WHERE c.cid = changed.cid
		RETURNING c.likes`, uid, t)
}

func (r *postgresRepository) Unlike(ctx context.Context, uid uuid.UUID, t comment.Target) (int, bool, error) {
	return r.adjustLikes(ctx, `
		WITH target AS (`+likeableComment+`),
		changed AS (
			DELETE FROM comment_likes l USING target
			WHERE l.uid = $4 AND l.cid = target.cid
			RETURNING l.cid
		)
		UPDATE comments c SET likes = c.likes - 1
		FROM changed WHERE c.cid = changed.cid
		RETURNING c.likes`, uid, t)
}

func (r *postgresRepository) adjustLikes(ctx context.Context, query string, uid uuid.UUID, t comment.Target) (int, bool, error) {
	var likes int
	err := r.db.QueryRow(ctx, query, t.BID, t.Number, t.CID, uid).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return likes, true, nil
}
