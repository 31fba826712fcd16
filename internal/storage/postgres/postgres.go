// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"crediwise/internal/metrics"
	"crediwise/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage is the pgx-backed storage.Table.
type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// whereClause renders equality filters starting at placeholder $start.
func whereClause(filters []storage.Filter, start int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	parts := make([]string, len(filters))
	args := make([]any, len(filters))
	for i, f := range filters {
		parts[i] = ident(f.Column) + " = $" + strconv.Itoa(start+i)
		args[i] = f.Value
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func buildSelect(table string, q storage.Query) (string, []any) {
	cols := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			quoted[i] = ident(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + cols + " FROM " + ident(table))
	where, args := whereClause(q.Filters, 1)
	sb.WriteString(where)
	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY " + ident(q.OrderBy))
		if q.Desc {
			sb.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}
	return sb.String(), args
}

// buildInsert renders a multi-row insert. Columns come from all rows; a row
// missing a column inserts NULL for it.
func buildInsert(table string, rows []storage.Row) (string, []any) {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range rows {
		for c := range r {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	}
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ident(c)
	}

	args := make([]any, 0, len(rows)*len(cols))
	values := make([]string, len(rows))
	for i, r := range rows {
		ph := make([]string, len(cols))
		for j, c := range cols {
			args = append(args, r[c])
			ph[j] = "$" + strconv.Itoa(len(args))
		}
		values[i] = "(" + strings.Join(ph, ", ") + ")"
	}

	sql := "INSERT INTO " + ident(table) + " (" + strings.Join(quoted, ", ") + ") VALUES " +
		strings.Join(values, ", ") + " RETURNING *"
	return sql, args
}

func (s *Storage) observe(op, table string, start time.Time, err error) error {
	metrics.RecordStoreQuery(op, table, time.Since(start), err)
	if err == nil {
		return nil
	}
	return &storage.Error{Op: op, Table: table, Err: err}
}

func checkTable(op, table string) error {
	if !storage.KnownTable(table) {
		return &storage.Error{Op: op, Table: table, Err: storage.ErrUnknownTable}
	}
	return nil
}

func collect(rows pgx.Rows) ([]storage.Row, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]storage.Row, len(maps))
	for i, m := range maps {
		out[i] = storage.Row(m)
	}
	return out, nil
}

func (s *Storage) Select(ctx context.Context, table string, q storage.Query) ([]storage.Row, error) {
	if err := checkTable("select", table); err != nil {
		return nil, err
	}
	sql, args := buildSelect(table, q)
	start := time.Now()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, s.observe("select", table, start, fmt.Errorf("query: %w", err))
	}
	result, err := collect(rows)
	if err != nil {
		return nil, s.observe("select", table, start, fmt.Errorf("collect rows: %w", err))
	}

	_ = s.observe("select", table, start, nil)
	slog.Debug("Select completed", "table", table, "rows", len(result))
	return result, nil
}

func (s *Storage) Insert(ctx context.Context, table string, rows ...storage.Row) ([]storage.Row, error) {
	if err := checkTable("insert", table); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	sql, args := buildInsert(table, rows)
	start := time.Now()

	res, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, s.observe("insert", table, start, fmt.Errorf("query: %w", err))
	}
	inserted, err := collect(res)
	if err != nil {
		return nil, s.observe("insert", table, start, fmt.Errorf("collect rows: %w", err))
	}

	_ = s.observe("insert", table, start, nil)
	slog.Debug("Insert completed", "table", table, "rows", len(inserted))
	return inserted, nil
}

func (s *Storage) Delete(ctx context.Context, table string, filters ...storage.Filter) error {
	if err := checkTable("delete", table); err != nil {
		return err
	}
	// An unfiltered delete would wipe the table.
	if len(filters) == 0 {
		return &storage.Error{Op: "delete", Table: table, Err: fmt.Errorf("delete requires a filter")}
	}
	where, args := whereClause(filters, 1)
	start := time.Now()

	tag, err := s.db.Exec(ctx, "DELETE FROM "+ident(table)+where, args...)
	if err != nil {
		return s.observe("delete", table, start, fmt.Errorf("exec: %w", err))
	}

	_ = s.observe("delete", table, start, nil)
	slog.Debug("Delete completed", "table", table, "rows", tag.RowsAffected())
	return nil
}

// Replace deletes the rows matching filters and inserts rows in one
// transaction. An empty rows slice only clears.
func (s *Storage) Replace(ctx context.Context, table string, filters []storage.Filter, rows []storage.Row) error {
	if err := checkTable("replace", table); err != nil {
		return err
	}
	if len(filters) == 0 {
		return &storage.Error{Op: "replace", Table: table, Err: fmt.Errorf("replace requires a filter")}
	}
	where, args := whereClause(filters, 1)
	start := time.Now()

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM "+ident(table)+where, args...); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		sql, insertArgs := buildInsert(table, rows)
		if _, err := tx.Exec(ctx, sql, insertArgs...); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.observe("replace", table, start, err)
	}

	_ = s.observe("replace", table, start, nil)
	slog.Debug("Replace completed", "table", table, "rows", len(rows))
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return &storage.Error{Op: "ping", Err: err}
	}
	return nil
}
