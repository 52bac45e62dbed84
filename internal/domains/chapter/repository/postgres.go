package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"serialfic-backend/internal/domains/chapter"
	"serialfic-backend/pkg/database"
)

type postgresRepository struct {
	db database.DB
}

func NewPostgresRepository(db database.DB) chapter.Repository {
	return &postgresRepository{db: db}
}

// visibleTo restricts a query over chapters c joined with books b.
func visibleTo(publishedOnly bool) string {
	if publishedOnly {
		return ` AND c.published_at IS NOT NULL AND b.published_at IS NOT NULL`
	}
	return ""
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) BookVisible(ctx context.Context, bid uuid.UUID, publishedOnly bool) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM books WHERE bid = $1`
	if publishedOnly {
		query += ` AND published_at IS NOT NULL`
	}
	query += `)`

	var visible bool
	err := r.db.QueryRow(ctx, query, bid).Scan(&visible)
	return visible, err
}

func (r *postgresRepository) List(ctx context.Context, bid uuid.UUID, publishedOnly bool) ([]chapter.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.number, c.title, c.published_at, c.likes, c.reads
		FROM chapters c JOIN books b ON b.bid = c.bid
		WHERE c.bid = $1`+visibleTo(publishedOnly)+`
		ORDER BY c.number`, bid)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[chapter.Summary])
}

func (r *postgresRepository) Get(ctx context.Context, bid uuid.UUID, number int, publishedOnly bool) (*chapter.Chapter, error) {
	var c chapter.Chapter
	err := r.db.QueryRow(ctx, `
		SELECT c.bid, c.number, c.title, c.content, c.published_at, c.created_at, c.likes, c.reads
		FROM chapters c JOIN books b ON b.bid = c.bid
		WHERE c.bid = $1 AND c.number = $2`+visibleTo(publishedOnly),
		bid, number,
	).Scan(&c.BID, &c.Number, &c.Title, &c.Content, &c.PublishedAt, &c.CreatedAt, &c.Likes, &c.Reads)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) Exists(ctx context.Context, bid uuid.UUID, number int, publishedOnly bool) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chapters c JOIN books b ON b.bid = c.bid
			WHERE c.bid = $1 AND c.number = $2`+visibleTo(publishedOnly)+`
		)`, bid, number,
	).Scan(&exists)
	return exists, err
}

func (r *postgresRepository) UserOwnsChapter(ctx context.Context, bid uuid.UUID, number int, uid uuid.UUID) (bool, error) {
	var owns bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chapters c JOIN books b ON b.bid = c.bid
			WHERE c.bid = $1 AND c.number = $2 AND b.written_by = $3
		)`, bid, number, uid,
	).Scan(&owns)
	return owns, err
}

// ========================================
// READ TRACKING
// ========================================

func (r *postgresRepository) RecordRead(ctx context.Context, reader *uuid.UUID, bid uuid.UUID, number int) (bool, error) {
	var counted bool
	err := r.db.QueryRow(ctx, `
		WITH counted AS (
			UPDATE chapters c SET reads = c.reads + 1
			FROM books b
			WHERE b.bid = c.bid AND c.bid = $1 AND c.number = $2
				AND c.published_at IS NOT NULL AND b.published_at IS NOT NULL
			RETURNING c.bid, c.number
		),
		tracked AS (
			INSERT INTO chapter_reads (uid, bid, number)
			SELECT $3::uuid, bid, number FROM counted WHERE $3::uuid IS NOT NULL
			ON CONFLICT (uid, bid, number) DO UPDATE SET read_at = now()
		)
		SELECT EXISTS (SELECT 1 FROM counted)`,
		bid, number, reader,
	).Scan(&counted)
	return counted, err
}

func (r *postgresRepository) LastRead(ctx context.Context, uid, bid uuid.UUID) (*chapter.LastRead, error) {
	var lr chapter.LastRead
	err := r.db.QueryRow(ctx, `
		SELECT cr.number, cr.read_at
		FROM chapter_reads cr
		JOIN chapters c ON c.bid = cr.bid AND c.number = cr.number
		JOIN books b ON b.bid = c.bid
		WHERE cr.uid = $1 AND cr.bid = $2
			AND c.published_at IS NOT NULL AND b.published_at IS NOT NULL
		ORDER BY cr.read_at DESC
		LIMIT 1`, uid, bid,
	).Scan(&lr.Number, &lr.ReadAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

// ========================================
// OWNER-GATED WRITES
// ========================================

// Create locks the book row before numbering, so concurrent creates on one
// book get consecutive numbers instead of colliding.
func (r *postgresRepository) Create(ctx context.Context, uid, bid uuid.UUID, title, content string) (int, bool, error) {
	var number int
	ok := false

	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT bid FROM books WHERE bid = $1 AND written_by = $2 FOR UPDATE`, bid, uid,
		).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO chapters (bid, number, title, content)
			SELECT $1, n.next, CASE WHEN $2 = '' THEN 'Chapter ' || n.next ELSE $2 END, $3
			FROM (SELECT COALESCE(MAX(number), 0) + 1 AS next FROM chapters WHERE bid = $1) n
			RETURNING number`,
			bid, title, content,
		).Scan(&number)
		if err != nil {
			return err
		}
		ok = true
		return nil
	})
	return number, ok, err
}

func (r *postgresRepository) Update(ctx context.Context, uid, bid uuid.UUID, number int, p chapter.Patch) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE chapters c SET
			title = CASE
				WHEN $4::text IS NULL THEN c.title
				WHEN $4 = '' THEN 'Chapter ' || c.number
				ELSE $4
			END,
			content = COALESCE($5, c.content)
		FROM books b
		WHERE b.bid = c.bid AND c.bid = $1 AND c.number = $2 AND b.written_by = $3`,
		bid, number, uid, p.Title, p.Content,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) Delete(ctx context.Context, uid, bid uuid.UUID, number int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM chapters c USING books b
		WHERE b.bid = c.bid AND c.bid = $1 AND c.number = $2 AND b.written_by = $3`,
		bid, number, uid,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) SetPublished(ctx context.Context, uid, bid uuid.UUID, number int, published bool) (bool, error) {
	set, from := `now()`, `c.published_at IS NULL`
	if !published {
		set, from = `NULL`, `c.published_at IS NOT NULL`
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE chapters c SET published_at = `+set+`
		FROM books b
		WHERE b.bid = c.bid AND c.bid = $1 AND c.number = $2 AND b.written_by = $3 AND `+from,
		bid, number, uid,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ========================================
// LIKES
// ========================================

// likeable selects a published chapter of a published book. Owners cannot
// like their drafts either.
const likeable = `
	SELECT c.bid, c.number FROM chapters c JOIN books b ON b.bid = c.bid
	WHERE c.bid = $2 AND c.number = $3
		AND c.published_at IS NOT NULL AND b.published_at IS NOT NULL`

func (r *postgresRepository) Like(ctx context.Context, uid, bid uuid.UUID, number int) (int, bool, error) {
	return r.adjustLikes(ctx, `
		WITH target AS (`+likeable+`),
		changed AS (
			INSERT INTO chapter_likes (uid, bid, number)
			SELECT $1, bid, number FROM target
			ON CONFLICT DO NOTHING
			RETURNING bid, number
		)
		UPDATE chapters c SET likes = c.likes + 1
		FROM changed WHERE c.bid = changed.bid AND c.number = changed.number
		RETURNING c.likes`, uid, bid, number)
}

func (r *postgresRepository) Unlike(ctx context.Context, uid, bid uuid.UUID, number int) (int, bool, error) {
	return r.adjustLikes(ctx, `
		WITH target AS (`+likeable+`),
		changed AS (
			DELETE FROM chapter_likes l USING target t
			WHERE l.uid = $1 AND l.bid = t.bid AND l.number = t.number
			RETURNING l.bid, l.number
		)
		UPDATE chapters c SET likes = c.likes - 1
		FROM changed WHERE c.bid = changed.bid AND c.number = changed.number
		RETURNING c.likes`, uid, bid, number)
}

func (r *postgresRepository) adjustLikes(ctx context.Context, query string, uid, bid uuid.UUID, number int) (int, bool, error) {
	var likes int
	err := r.db.QueryRow(ctx, query, uid, bid, number).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return likes, true, nil
}
