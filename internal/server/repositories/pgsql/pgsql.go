// Package pgsql holds query-building helpers shared by the PostgreSQL
// repositories.
package pgsql

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsForeignKeyViolation reports whether err references a missing row.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// Where accumulates AND-ed conditions with positional arguments.
type Where struct {
	clauses []string
	args    []any
}

// Add appends cond, where %d is replaced by the argument's position.
func (w *Where) Add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(cond, len(w.args)))
}

// SQL renders " WHERE ..." or an empty string.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns the positional arguments followed by extra.
func (w *Where) Args(extra ...any) []any {
	out := make([]any, 0, len(w.args)+len(extra))
	out = append(out, w.args...)
	return append(out, extra...)
}

// Next is the position the next argument will take.
func (w *Where) Next() int {
	return len(w.args) + 1
}

// Order renders an ORDER BY clause for the wire field names in o that appear
// in columns; unknown fields are ignored. "id ASC" always closes the list so
// pages are stable.
func Order(o pagination.OrderBy, columns map[string]string) string {
	parts := make([]string, 0, len(o)+1)
	for _, field := range o.Fields() {
		col, ok := columns[field]
		if !ok {
			continue
		}
		dir := "ASC"
		if o[field] == pagination.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// Contains wraps s for an ILIKE substring match.
func Contains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// ExpectOne maps a statement that touched no rows to common.ErrorNotFound.
func ExpectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
