package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// uniqueViolation is the postgres SQLSTATE for unique constraint errors
const uniqueViolation = "23505"

// foreignKeyViolation is the postgres SQLSTATE for foreign key errors
const foreignKeyViolation = "23503"

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == foreignKeyViolation
}

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// textArray returns a scanner for a TEXT[] column. Each call gets its own
// type map since pgtype.Map is not safe for concurrent use.
func textArray(dst *[]string) sql.Scanner {
	return pgtype.NewMap().SQLScanner(dst)
}

// orEmpty keeps NOT NULL array columns from receiving NULL
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// whereBuilder assembles a parameterized WHERE clause
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

// add appends a clause; every %d in clause is replaced by the placeholder
// index of arg
func (b *whereBuilder) add(clause string, arg interface{}) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, strings.ReplaceAll(clause, "%d", fmt.Sprintf("%d", len(b.args))))
}

// addRaw appends a clause that takes no argument
func (b *whereBuilder) addRaw(clause string) {
	b.clauses = append(b.clauses, clause)
}

func (b *whereBuilder) String() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.clauses, " AND ")
}

// next returns the placeholder index for an argument appended after the
// filter arguments
func (b *whereBuilder) next() int {
	return len(b.args) + 1
}

// likePattern escapes LIKE metacharacters in a user-supplied search term
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}
