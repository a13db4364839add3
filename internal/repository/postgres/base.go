package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/property-api/internal/repository"
)

type txKey struct{}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// ext returns the transaction carried by ctx, or the pool.
func (r *BaseRepository) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

// WithinTx executes fn within a transaction. Nested calls join the outer one.
func (r *BaseRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// table holds the column list of one entity and the SQL shared by every
// repository: insert, update, point reads, multi-get and delete.
type table[T any] struct {
	BaseRepository
	name    string
	columns []string
	scoped  bool
	// fixed columns are written on insert only.
	fixed map[string]bool
}

func newTable[T any](base BaseRepository, name string, scoped bool, columns ...string) table[T] {
	return table[T]{BaseRepository: base, name: name, columns: columns, scoped: scoped}
}

func (t *table[T]) selectList() string {
	return strings.Join(t.columns, ", ")
}

func (t *table[T]) insert(ctx context.Context, v *T) error {
	placeholders := make([]string, len(t.columns))
	for i, c := range t.columns {
		placeholders[i] = ":" + c
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, t.selectList(), strings.Join(placeholders, ", "))
	if _, err := sqlx.NamedExecContext(ctx, t.ext(ctx), query, v); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}
	return nil
}

func (t *table[T]) update(ctx context.Context, v *T) error {
	sets := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if c == "id" || c == "organization_id" || c == "created_at" || t.fixed[c] {
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", t.name, strings.Join(sets, ", "))
	if t.scoped {
		query += " AND organization_id = :organization_id"
	}
	res, err := sqlx.NamedExecContext(ctx, t.ext(ctx), query, v)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.name, err)
	}
	return expectRow(res)
}

func (t *table[T]) get(ctx context.Context, orgID, id uuid.UUID) (*T, error) {
	return t.one(ctx, t.byID(orgID, id))
}

// getForUpdate row-locks the read until the transaction in ctx ends.
// Outside a transaction the lock is released as soon as the read returns.
func (t *table[T]) getForUpdate(ctx context.Context, orgID, id uuid.UUID) (*T, error) {
	return t.query(ctx, t.byID(orgID, id), " FOR UPDATE")
}

func (t *table[T]) byID(orgID, id uuid.UUID) *where {
	w := newWhere()
	w.add("id = $%d", id)
	if t.scoped {
		w.add("organization_id = $%d", orgID)
	}
	return w
}

func (t *table[T]) one(ctx context.Context, w *where) (*T, error) {
	return t.query(ctx, w, "")
}

func (t *table[T]) query(ctx context.Context, w *where, lock string) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1%s", t.selectList(), t.name, w.sql(), lock)
	var v T
	if err := sqlx.GetContext(ctx, t.ext(ctx), &v, query, w.args...); err != nil {
		return nil, mapNotFound(err)
	}
	return &v, nil
}

func (t *table[T]) getMany(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	w := newWhere()
	w.add("id = ANY($%d::uuid[])", pq.Array(uuidStrings(ids)))
	if t.scoped {
		w.add("organization_id = $%d", orgID)
	}
	return t.list(ctx, w, "")
}

func (t *table[T]) list(ctx context.Context, w *where, orderBy string) ([]*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s%s", t.selectList(), t.name, w.sql())
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	out := []*T{}
	if err := sqlx.SelectContext(ctx, t.ext(ctx), &out, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	return out, nil
}

func (t *table[T]) delete(ctx context.Context, orgID, id uuid.UUID) error {
	w := newWhere()
	w.add("id = $%d", id)
	if t.scoped {
		w.add("organization_id = $%d", orgID)
	}
	res, err := t.ext(ctx).ExecContext(ctx, "DELETE FROM "+t.name+w.sql(), w.args...)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", t.name, err)
	}
	return expectRow(res)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// where accumulates AND-ed conditions with numbered placeholders.
type where struct {
	clauses []string
	args    []interface{}
}

func newWhere() *where {
	return &where{}
}

// add appends a clause; clause holds a single %d for the placeholder index.
func (w *where) add(clause string, arg interface{}) *where {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
	return w
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func orgWhere(orgID uuid.UUID) *where {
	return newWhere().add("organization_id = $%d", orgID)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func statusArray[S ~string](statuses ...S) interface{} {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return pq.Array(out)
}
