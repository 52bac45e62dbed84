package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"serialfic-backend/internal/domains/book"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/pkg/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) book.Repository {
	return &postgresRepository{db: db}
}

// selectBooks reads books with aggregates over their chapters and their tags
// as one array. Drafted chapters are left out of the aggregates when
// publishedOnly is set.
func selectBooks(publishedOnly bool) string {
	chapterFilter := ""
	if publishedOnly {
		chapterFilter = " AND c.published_at IS NOT NULL"
	}
	return `SELECT b.bid, b.title, b.blurb, b.written_by, b.image, b.published_at, b.created_at,
	COALESCE(agg.likes, 0) AS total_likes,
	COALESCE(agg.reads, 0) AS total_reads,
	agg.chapters AS chapter_count,
	COALESCE(t.tags, '{}') AS tags
FROM books b
LEFT JOIN LATERAL (
	SELECT SUM(c.likes) AS likes, SUM(c.reads) AS reads, COUNT(*) AS chapters
	FROM chapters c WHERE c.bid = b.bid` + chapterFilter + `
) agg ON true
LEFT JOIN LATERAL (
	SELECT array_agg(bt.tag_name ORDER BY bt.tag_name) AS tags
	FROM book_tags bt WHERE bt.bid = b.bid
) t ON true`
}

func scanBook(row pgx.Row) (book.Book, error) {
	var b book.Book
	err := row.Scan(
		&b.BID, &b.Title, &b.Blurb, &b.WrittenBy, &b.Image, &b.PublishedAt, &b.CreatedAt,
		&b.Likes, &b.Reads, &b.ChapterCount, &b.Tags,
	)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b, err
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, bid uuid.UUID, publishedOnly bool) (*book.Book, error) {
	query := selectBooks(publishedOnly) + ` WHERE b.bid = $1`
	if publishedOnly {
		query += ` AND b.published_at IS NOT NULL`
	}

	b, err := scanBook(r.db.QueryRow(ctx, query, bid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) List(ctx context.Context, f book.ListFilter, p *listing.Params) ([]book.Book, error) {
	query, args := buildListQuery(f, p)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (book.Book, error) {
		return scanBook(row)
	})
}

func buildListQuery(f book.ListFilter, p *listing.Params) (string, []any) {
	b := &listing.Builder{}
	b.Write(selectBooks(f.PublishedOnly))

	var conds []string
	if f.PublishedOnly {
		conds = append(conds, "b.published_at IS NOT NULL")
	}
	if f.WrittenBy != nil {
		conds = append(conds, "b.written_by = "+b.Arg(*f.WrittenBy))
	}
	if p.Search != "" {
		conds = append(conds, b.PrefixMatch("b.title", p.Search))
	}
	if len(p.Tags) > 0 {
		// Every requested tag must be present.
		conds = append(conds, "t.tags @> "+b.Arg(pq.Array(p.Tags))+"::text[]")
	}
	b.Where(conds...)

	order := listing.ParseSort(p.Sort, book.SortFields, book.DefaultSort)
	b.Window(p, order, "b.bid")
	return b.SQL(), b.Args()
}

func (r *postgresRepository) Chapters(ctx context.Context, bid uuid.UUID, publishedOnly bool) ([]book.ChapterSummary, error) {
	query := `SELECT number, title, published_at, likes, reads FROM chapters WHERE bid = $1`
	if publishedOnly {
		query += ` AND published_at IS NOT NULL`
	}
	query += ` ORDER BY number`

	rows, err := r.db.Query(ctx, query, bid)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[book.ChapterSummary])
}

func (r *postgresRepository) Tags(ctx context.Context, bid uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT tag_name FROM book_tags WHERE bid = $1 ORDER BY tag_name`, bid)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *postgresRepository) UserOwnsBook(ctx context.Context, bid, uid uuid.UUID) (bool, error) {
	var owns bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE bid = $1 AND written_by = $2)`, bid, uid,
	).Scan(&owns)
	return owns, err
}

// ========================================
// OWNER-GATED WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, uid uuid.UUID, title, blurb string) (uuid.UUID, error) {
	var bid uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO books (title, blurb, written_by) VALUES ($1, $2, $3) RETURNING bid`,
		title, blurb, uid,
	).Scan(&bid)
	return bid, err
}

func (r *postgresRepository) Update(ctx context.Context, uid, bid uuid.UUID, p book.Patch) (*string, bool, error) {
	var previous *string
	err := r.db.QueryRow(ctx, `
		UPDATE books b SET
			title = COALESCE($3, b.title),
			blurb = COALESCE($4, b.blurb),
			image = CASE WHEN $5 THEN $6 ELSE b.image END
		FROM (SELECT bid, image FROM books WHERE bid = $1 AND written_by = $2 FOR UPDATE) old
		WHERE b.bid = old.bid
		RETURNING old.image`,
		bid, uid, p.Title, p.Blurb, p.SetImage, p.Image,
	).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return previous, true, nil
}

func (r *postgresRepository) Delete(ctx context.Context, uid, bid uuid.UUID) (*string, bool, error) {
	var image *string
	err := r.db.QueryRow(ctx,
		`DELETE FROM books WHERE bid = $1 AND written_by = $2 RETURNING image`, bid, uid,
	).Scan(&image)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return image, true, nil
}

// SetPublished flips published_at only from the opposite state, so two
// concurrent publishes cannot both succeed.
func (r *postgresRepository) SetPublished(ctx context.Context, uid, bid uuid.UUID, published bool) (bool, error) {
	query := `UPDATE books SET published_at = now()
		WHERE bid = $1 AND written_by = $2 AND published_at IS NULL`
	if !published {
		query = `UPDATE books SET published_at = NULL
		WHERE bid = $1 AND written_by = $2 AND published_at IS NOT NULL`
	}

	tag, err := r.db.Exec(ctx, query, bid, uid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) AddTag(ctx context.Context, uid, bid uuid.UUID, tagName string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO book_tags (bid, tag_name)
		SELECT bid, $3 FROM books WHERE bid = $1 AND written_by = $2`,
		bid, uid, tagName,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) RemoveTag(ctx context.Context, uid, bid uuid.UUID, tagName string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM book_tags bt USING books b
		WHERE bt.bid = b.bid AND b.bid = $1 AND b.written_by = $2 AND bt.tag_name = $3`,
		bid, uid, tagName,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
