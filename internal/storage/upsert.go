package storage

import (
	"context"
	"fmt"
	"strings"
)

// Row holds column values for one table write. Columns absent from the map
// are left alone on update and default to NULL on insert.
type Row map[string]any

// TableStore implements the generic "upsert row with existence check" helper
// the sync and archive engines are built on. One parameterized helper covers
// every listing table instead of a hand-written method per table.
type TableStore struct{}

// NewTableStore creates a table store.
func NewTableStore() *TableStore {
	return &TableStore{}
}

// RowExists checks whether a row for id exists in the named table.
func (s *TableStore) RowExists(ctx context.Context, q Querier, table string, id int64) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`, table, PrimaryKeyColumn)
	if err := q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check row existence in %s: %w", table, err)
	}
	return exists, nil
}

// UpsertRow writes one listing row. If a row for id exists, only the supplied
// columns are updated; otherwise a full row is inserted with NULL defaults
// for columns the caller did not supply.
func (s *TableStore) UpsertRow(ctx context.Context, q Querier, spec TableSpec, id int64, row Row) error {
	exists, err := s.RowExists(ctx, q, spec.Name, id)
	if err != nil {
		return err
	}

	var query string
	var args []any
	if exists {
		query, args = buildUpdateSQL(spec, id, row)
		if query == "" {
			return nil // nothing supplied for this table
		}
	} else {
		query, args = buildInsertSQL(spec, id, row)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert row in %s: %w", spec.Name, err)
	}
	return nil
}

// DeleteRow removes the row for id from the named table, returning the
// number of rows removed.
func (s *TableStore) DeleteRow(ctx context.Context, q Querier, table string, id int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, PrimaryKeyColumn)
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete row from %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// CopyRowToArchive copies the full row for id from the active table into its
// archive shadow, returning the number of rows copied. The column lists of a
// pair are identical by construction.
func (s *TableStore) CopyRowToArchive(ctx context.Context, q Querier, spec TableSpec, id int64) (int64, error) {
	cols := strings.Join(append([]string{PrimaryKeyColumn}, spec.Columns...), ", ")
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) SELECT %s FROM %s WHERE %s = $1`,
		spec.Archive, cols, cols, spec.Name, PrimaryKeyColumn,
	)
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to copy row from %s to %s: %w", spec.Name, spec.Archive, err)
	}
	return tag.RowsAffected(), nil
}

// RetagPhotos relabels the media rows for id from one source to another.
// Photo rows are never duplicated or moved between tables; only the source
// label changes, because the underlying files are not relocated.
func (s *TableStore) RetagPhotos(ctx context.Context, q Querier, id int64, from, to string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET source = $1 WHERE %s = $2 AND source = $3`, PhotosTable, PrimaryKeyColumn)
	tag, err := q.Exec(ctx, query, to, id, from)
	if err != nil {
		return 0, fmt.Errorf("failed to retag photos: %w", err)
	}
	return tag.RowsAffected(), nil
}

// buildUpdateSQL builds an UPDATE touching only the supplied columns, in the
// table's declared column order so statements are deterministic. Returns an
// empty query when the row supplies none of the table's columns.
func buildUpdateSQL(spec TableSpec, id int64, row Row) (string, []any) {
	var sets []string
	args := []any{id}
	pos := 2

	for _, col := range spec.Columns {
		val, ok := row[col]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, pos))
		args = append(args, val)
		pos++
	}

	if len(sets) == 0 {
		return "", nil
	}

	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE %s = $1`,
		spec.Name, strings.Join(sets, ", "), PrimaryKeyColumn,
	)
	return query, args
}

// buildInsertSQL builds an INSERT of the full column set, with nil (NULL)
// for columns the row does not supply.
func buildInsertSQL(spec TableSpec, id int64, row Row) (string, []any) {
	cols := []string{PrimaryKeyColumn}
	placeholders := []string{"$1"}
	args := []any{id}

	for i, col := range spec.Columns {
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		if val, ok := row[col]; ok {
			args = append(args, val)
		} else {
			args = append(args, nil)
		}
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		spec.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	return query, args
}
