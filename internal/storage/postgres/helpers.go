package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"cmstore/internal/storage"
)

// uniqueViolation reports whether err is a PostgreSQL unique-index
// violation and names the violated constraint.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// listSpec describes how one table answers a ListQuery: the base
// SELECT and the whitelist mapping JSON field names to columns.
// Unknown fields fail validation instead of being interpolated.
type listSpec struct {
	selectBase string
	fields     map[string]string
}

// buildList turns a ListQuery into SQL. The base order is ascending by
// id (ids sort by creation time) so results are deterministic and
// OrderBy gets a stable tie-break, matching the JSON engine.
func buildList(spec listSpec, q storage.ListQuery) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(spec.selectBase)
	args := make([]any, 0, len(q.Where))

	if len(q.Where) > 0 {
		// Deterministic clause order keeps queries stable for tests.
		clauses := make([]string, 0, len(q.Where))
		fields := make([]string, 0, len(q.Where))
		for f := range q.Where {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			col, ok := spec.fields[f]
			if !ok {
				return "", nil, &storage.ValidationError{Field: f, Reason: "unknown filter field"}
			}
			args = append(args, q.Where[f])
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	sb.WriteString(" ORDER BY ")
	if q.OrderBy != nil {
		col, ok := spec.fields[q.OrderBy.Field]
		if !ok {
			return "", nil, &storage.ValidationError{Field: q.OrderBy.Field, Reason: "unknown sort field"}
		}
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		sb.WriteString(col + " " + dir + ", id ASC")
	} else {
		sb.WriteString("id ASC")
	}

	if q.Take > 0 {
		args = append(args, q.Take)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args, nil
}

// nullStr maps an empty string to SQL NULL for optional columns
// (nullable foreign keys and optional text).
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// withTx runs fn inside a transaction, committing on nil and rolling
// back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// reorderRows assigns "order" = position for each id inside tx,
// optionally constrained to a parent scope. A missing id aborts with
// NotFoundError; an id outside the scope aborts with ValidationError.
func (s *Store) reorderRows(ctx context.Context, table, entity, parentCol, parentID string, ids []string) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		now := s.now()
		for pos, rid := range ids {
			var (
				res sql.Result
				err error
			)
			if parentCol == "" {
				res, err = tx.ExecContext(ctx,
					fmt.Sprintf(`UPDATE %s SET "order" = $1, updated_at = $2 WHERE id = $3`, table),
					pos, now, rid)
			} else {
				res, err = tx.ExecContext(ctx,
					fmt.Sprintf(`UPDATE %s SET "order" = $1, updated_at = $2 WHERE id = $3 AND %s = $4`, table, parentCol),
					pos, now, rid, parentID)
			}
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				if parentCol != "" {
					var exists bool
					if err := tx.QueryRowContext(ctx,
						fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table), rid,
					).Scan(&exists); err != nil {
						return err
					}
					if exists {
						return &storage.ValidationError{
							Field:  parentCol,
							Reason: fmt.Sprintf("%s %q is not owned by %q", entity, rid, parentID),
						}
					}
				}
				return &storage.NotFoundError{Entity: entity, ID: rid}
			}
		}
		return nil
	})
}
