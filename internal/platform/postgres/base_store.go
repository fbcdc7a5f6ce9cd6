package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/platform/logger"
	"github.com/phrazzld/lift-api/internal/store"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one aggregate maps onto its table. columns lists
// every selected column in scan order, id first.
type table[T any] struct {
	name    string
	entity  string
	columns []string
	scan    func(rowScanner) (T, error)
}

func (t table[T]) selectList(alias string) string {
	if alias == "" {
		return strings.Join(t.columns, ", ")
	}
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// guardFn runs after the existence check and before the write.
type guardFn func(ctx context.Context) error

// baseStore holds the persistence rules shared by every aggregate:
// create refuses an id that is already taken, update and delete refuse an
// id that is missing, and an update touching zero rows is an error of its
// own.
type baseStore[T any] struct {
	db     store.DBTX
	logger *slog.Logger
	table  table[T]
}

func newBaseStore[T any](db store.DBTX, log *slog.Logger, t table[T]) baseStore[T] {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return baseStore[T]{
		db:     db,
		logger: log.With(slog.String("component", t.entity+"_store")),
		table:  t,
	}
}

func (b baseStore[T]) withDB(db store.DBTX) baseStore[T] {
	b.db = db
	return b
}

func (b *baseStore[T]) fail(op, msg string, err error) error {
	return store.NewStoreError(b.table.entity, op, msg, err)
}

func (b *baseStore[T]) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	q := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", b.table.name)
	var found bool
	if err := b.db.QueryRowContext(ctx, q, id).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

// taken reports whether a row other than exclude holds every column value
// in match.
func (b *baseStore[T]) taken(ctx context.Context, exclude uuid.UUID, columns []string, values []any) (bool, error) {
	conds := make([]string, 0, len(columns)+1)
	for i, c := range columns {
		conds = append(conds, fmt.Sprintf("%s = $%d", c, i+1))
	}
	conds = append(conds, fmt.Sprintf("id <> $%d", len(columns)+1))
	q := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s)", b.table.name, strings.Join(conds, " AND "))

	var found bool
	args := append(append([]any{}, values...), exclude)
	if err := b.db.QueryRowContext(ctx, q, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

// unique builds a guard that fails with a DuplicateError when another row
// already holds the given field values.
func (b *baseStore[T]) unique(exclude uuid.UUID, fields map[string]any, columns []string, values []any) guardFn {
	return func(ctx context.Context) error {
		found, err := b.taken(ctx, exclude, columns, values)
		if err != nil {
			return b.fail("check", "uniqueness check failed", err)
		}
		if found {
			logger.FromContextOrDefault(ctx, b.logger).Debug("duplicate rejected",
				slog.Any("fields", fields))
			return store.NewDuplicateError(b.table.entity, fields)
		}
		return nil
	}
}

func (b *baseStore[T]) queryOne(ctx context.Context, op, q string, args ...any) (T, error) {
	var zero T
	item, err := b.table.scan(b.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, b.fail(op, "not found", store.ErrItemNotFound)
		}
		logger.FromContextOrDefault(ctx, b.logger).Error("query failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return zero, b.fail(op, "query failed", err)
	}
	return item, nil
}

func (b *baseStore[T]) queryMany(ctx context.Context, op, q string, args ...any) ([]T, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)

	rows, err := b.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("query failed", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, b.fail(op, "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]T, 0)
	for rows.Next() {
		item, err := b.table.scan(rows)
		if err != nil {
			log.Error("failed to map row", slog.String("operation", op), slog.String("error", err.Error()))
			return nil, b.fail(op, "failed to map row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, b.fail(op, "row iteration failed", err)
	}
	return items, nil
}

func (b *baseStore[T]) getByID(ctx context.Context, id uuid.UUID) (T, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", b.table.selectList(""), b.table.name)
	return b.queryOne(ctx, "get", q, id)
}

// insert writes a new row and maps the returned row back into an
// aggregate. A nil id gets a fresh uuid; a supplied id must be unused.
func (b *baseStore[T]) insert(ctx context.Context, id uuid.UUID, columns []string, values []any, guards ...guardFn) (T, error) {
	var zero T
	log := logger.FromContextOrDefault(ctx, b.logger)

	if id != uuid.Nil {
		found, err := b.exists(ctx, id)
		if err != nil {
			return zero, b.fail("create", "existence check failed", err)
		}
		if found {
			log.Warn("create with an id that already exists", slog.String("id", id.String()))
			return zero, b.fail("create", fmt.Sprintf("%s %s already exists", b.table.entity, id), store.ErrItemAlreadyExists)
		}
	} else {
		id = uuid.New()
	}

	for _, guard := range guards {
		if err := guard(ctx); err != nil {
			return zero, err
		}
	}

	placeholders := make([]string, len(columns)+1)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (%s) RETURNING %s",
		b.table.name,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		b.table.selectList(""))

	args := append([]any{id}, values...)
	item, err := b.table.scan(b.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		switch {
		case domain.IsValidationError(err):
			log.Error("row written but could not be mapped back",
				slog.String("id", id.String()),
				slog.String("error", err.Error()))
			return zero, b.fail("create", "stored row could not be mapped: "+err.Error(), store.ErrCreate)
		case IsUniqueViolation(err):
			return zero, duplicateFromPg(b.table.entity, err)
		default:
			log.Error("insert failed", slog.String("id", id.String()), slog.String("error", err.Error()))
			return zero, b.fail("create", "insert failed", writeFailure(err, store.ErrCreate))
		}
	}

	log.Debug("created", slog.String("id", id.String()))
	return item, nil
}

// update overwrites columns of an existing row and bumps updated_at.
func (b *baseStore[T]) update(ctx context.Context, id uuid.UUID, columns []string, values []any, guards ...guardFn) error {
	log := logger.FromContextOrDefault(ctx, b.logger)

	found, err := b.exists(ctx, id)
	if err != nil {
		return b.fail("update", "existence check failed", err)
	}
	if !found {
		return b.fail("update", fmt.Sprintf("%s %s not found", b.table.entity, id), store.ErrItemNotFound)
	}

	for _, guard := range guards {
		if err := guard(ctx); err != nil {
			return err
		}
	}

	assignments := make([]string, 0, len(columns)+1)
	for i, c := range columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", c, i+2))
	}
	assignments = append(assignments, "updated_at = NOW()")
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", b.table.name, strings.Join(assignments, ", "))

	res, err := b.db.ExecContext(ctx, q, append([]any{id}, values...)...)
	if err != nil {
		if IsUniqueViolation(err) {
			return duplicateFromPg(b.table.entity, err)
		}
		log.Error("update failed", slog.String("id", id.String()), slog.String("error", err.Error()))
		return b.fail("update", "write failed", writeFailure(err, store.ErrSave))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return b.fail("update", "rows affected unavailable", fmt.Errorf("%w: %v", store.ErrSave, err))
	}
	if n == 0 {
		log.Error("update affected no rows", slog.String("id", id.String()))
		return b.fail("update", fmt.Sprintf("%s %s: no rows affected", b.table.entity, id), store.ErrUpdate)
	}
	return nil
}

// delete removes an existing row. The existence check already ran, so
// rows affected is not inspected. A row still referenced through a
// restricting foreign key fails with ErrItemInUse.
func (b *baseStore[T]) delete(ctx context.Context, id uuid.UUID) error {
	found, err := b.exists(ctx, id)
	if err != nil {
		return b.fail("delete", "existence check failed", err)
	}
	if !found {
		return b.fail("delete", fmt.Sprintf("%s %s not found", b.table.entity, id), store.ErrItemNotFound)
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", b.table.name)
	if _, err := b.db.ExecContext(ctx, q, id); err != nil {
		if IsForeignKeyViolation(err) {
			logger.FromContextOrDefault(ctx, b.logger).Info("delete refused, row still referenced",
				slog.String("id", id.String()))
			return b.fail("delete", fmt.Sprintf("%s %s is still referenced", b.table.entity, id),
				fmt.Errorf("%w: %v", store.ErrItemInUse, err))
		}
		logger.FromContextOrDefault(ctx, b.logger).Error("delete failed",
			slog.String("id", id.String()),
			slog.String("error", err.Error()))
		return b.fail("delete", "delete failed", fmt.Errorf("%w: %v", store.ErrSave, err))
	}
	return nil
}

func nullableOrder(o domain.Order) any {
	if v := o.Value(); v != nil {
		return *v
	}
	return nil
}
