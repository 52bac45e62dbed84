package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes handled by the translator.
const (
	CodeUniqueViolation     = "23505"
	CodeNotNullViolation    = "23502"
	CodeForeignKeyViolation = "23503"
)

var detailKeyRe = regexp.MustCompile(`Key \(([^)]+)\)=`)

// Singular nouns used in generic messages.
var tableNouns = map[string]string{
	"users":                "user",
	"books":                "book",
	"chapters":             "chapter",
	"comments":             "comment",
	"tags":                 "tag",
	"book_tags":            "book tag",
	"book_saves":           "book save",
	"chapter_likes":        "chapter like",
	"comment_likes":        "comment like",
	"password_reset_codes": "reset code",
}

// dbFailure holds the parts of a PostgreSQL error the translator reads.
type dbFailure struct {
	code   string
	table  string
	column string
	detail string
}

func (f dbFailure) keyColumns() string {
	if m := detailKeyRe.FindStringSubmatch(f.detail); m != nil {
		return m[1]
	}
	return f.column
}

func asDBFailure(err error) (dbFailure, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return dbFailure{code: pgErr.Code, table: pgErr.TableName, column: pgErr.ColumnName, detail: pgErr.Detail}, true
	}
	return dbFailure{}, false
}

// FromDB maps a database error onto an application error.
// Constraint violations get a status and readable message; any other database
// error becomes a 500 DBError. Non-database errors are returned unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	f, ok := asDBFailure(err)
	if !ok {
		return err
	}

	out := &Error{Kind: KindDB, Status: http.StatusInternalServerError, Message: "Unexpected database error", Err: err}
	switch f.code {
	case CodeUniqueViolation:
		out.Status = http.StatusConflict
		out.Message = uniqueMessage(f)
	case CodeNotNullViolation:
		out.Status = http.StatusBadRequest
		out.Message = fmt.Sprintf("%s must be provided", f.column)
	case CodeForeignKeyViolation:
		out.Status = http.StatusNotFound
		out.Message = foreignKeyMessage(f)
	}
	return out
}

func uniqueMessage(f dbFailure) string {
	cols := f.keyColumns()
	switch {
	case strings.Contains(cols, "username") || strings.Contains(cols, "email"):
		return "A user with this username or email already exists"
	case f.table == "books" && strings.Contains(cols, "title"):
		return "A book with this title already exists"
	case f.table == "book_saves":
		return "Book is already saved"
	case f.table == "book_tags":
		return "Book already has this tag"
	case f.table == "tags":
		return "Tag already exists"
	}
	return fmt.Sprintf("A %s with this %s already exists", noun(f.table), cols)
}

func foreignKeyMessage(f dbFailure) string {
	cols := f.keyColumns()
	switch {
	case strings.Contains(cols, "tag_name"):
		return "No such tag found"
	case cols == "bid, number":
		return "No such chapter found"
	case cols == "replies_to":
		return "No such comment found"
	}
	return fmt.Sprintf("No such %s found", cols)
}

func noun(table string) string {
	if n, ok := tableNouns[table]; ok {
		return n
	}
	if table == "" {
		return "record"
	}
	return table
}
