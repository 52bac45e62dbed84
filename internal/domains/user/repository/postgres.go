package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"serialfic-backend/internal/domains/user"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/pkg/database"
)

const userColumns = `uid, email, username, password, profile_image, joined_at`

type postgresRepository struct {
	db database.DB
}

// NewPostgresRepository returns the pgx-backed user.Repository.
func NewPostgresRepository(db database.DB) user.Repository {
	return &postgresRepository{db: db}
}

// ========================================
// ACCOUNT LIFECYCLE
// ========================================

func (r *postgresRepository) CreateWithResetCodes(ctx context.Context, u *user.User, codeHashes []string) (uuid.UUID, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (uuid.UUID, error) {
		var uid uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO users (email, username, password) VALUES ($1, $2, $3) RETURNING uid`,
			u.Email, u.Username, u.Password,
		).Scan(&uid)
		if err != nil {
			return uuid.Nil, err
		}

		batch := &pgx.Batch{}
		for _, code := range codeHashes {
			batch.Queue(`INSERT INTO password_reset_codes (uid, code) VALUES ($1, $2)`, uid, code)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return uuid.Nil, fmt.Errorf("insert reset codes: %w", err)
		}
		return uid, nil
	})
}

func (r *postgresRepository) Delete(ctx context.Context, uid uuid.UUID) ([]string, bool, error) {
	var images []string
	found := false

	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT image FROM books WHERE written_by = $1 AND image IS NOT NULL`, uid)
		if err != nil {
			return err
		}
		covers, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}

		var profile *string
		err = tx.QueryRow(ctx,
			`DELETE FROM users WHERE uid = $1 RETURNING profile_image`, uid,
		).Scan(&profile)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		images = covers
		if profile != nil {
			images = append(images, *profile)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return images, found, nil
}

// ========================================
// LOOKUPS
// ========================================

func (r *postgresRepository) FindByID(ctx context.Context, uid uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.UID, &u.Email, &u.Username, &u.Password, &u.ProfileImage, &u.JoinedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) List(ctx context.Context, p *listing.Params) ([]user.PublicProfile, error) {
	query, args := buildListQuery(p)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.PublicProfile, error) {
		var pp user.PublicProfile
		err := row.Scan(&pp.UID, &pp.Email, &pp.Username, &pp.Image, &pp.JoinedAt)
		return pp, err
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func buildListQuery(p *listing.Params) (string, []any) {
	b := &listing.Builder{}
	b.Write(`SELECT uid, email, username, profile_image, joined_at FROM users`)
	if p.Search != "" {
		b.Where(b.PrefixMatch("username", p.Search))
	}
	order := listing.ParseSort(p.Sort, user.UserSortFields, user.DefaultUserSort)
	b.Window(p, order, "uid")
	return b.SQL(), b.Args()
}

// ========================================
// CREDENTIALS & PROFILE
// ========================================

func (r *postgresRepository) ResetCodes(ctx context.Context, uid uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT code FROM password_reset_codes WHERE uid = $1`, uid)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *postgresRepository) ChangePassword(ctx context.Context, uid uuid.UUID, passwordHash, codeHash string) (bool, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (bool, error) {
		// Consuming the code first makes concurrent reuse of one code lose.
		tag, err := tx.Exec(ctx,
			`DELETE FROM password_reset_codes WHERE uid = $1 AND code = $2`, uid, codeHash)
		if err != nil {
			return false, err
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}

		tag, err = tx.Exec(ctx, `UPDATE users SET password = $2 WHERE uid = $1`, uid, passwordHash)
		if err != nil {
			return false, err
		}
		return tag.RowsAffected() == 1, nil
	})
}

func (r *postgresRepository) SetProfileImage(ctx context.Context, uid uuid.UUID, url string) (*string, bool, error) {
	var previous *string
	err := r.db.QueryRow(ctx, `
		UPDATE users u SET profile_image = $2
		FROM (SELECT uid, profile_image FROM users WHERE uid = $1 FOR UPDATE) old
		WHERE u.uid = old.uid
		RETURNING old.profile_image`,
		uid, url,
	).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return previous, true, nil
}
