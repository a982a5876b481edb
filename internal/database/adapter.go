package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Result describes the outcome of Execute.
type Result struct {
	GeneratedID  int64
	RowsAffected int64
}

// DataAccessError wraps every driver failure surfaced by this package.
// Its message is the driver's message so callers can pass it through.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return e.Err.Error()
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// QueryAll returns every row of the query mapped onto T by column name.
func QueryAll[T any](ctx context.Context, q Querier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, &DataAccessError{Op: "query_all", Err: err}
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, &DataAccessError{Op: "query_all", Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// QueryOne returns the first row of the query, or nil when there is none.
func QueryOne[T any](ctx context.Context, q Querier, sql string, args ...any) (*T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, &DataAccessError{Op: "query_one", Err: err}
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &DataAccessError{Op: "query_one", Err: err}
	}
	return item, nil
}

// Execute runs a statement and reports affected rows. When the statement returns rows
// (INSERT ... RETURNING id) the first column of the first row is taken as the generated id.
func Execute(ctx context.Context, q Querier, sql string, args ...any) (Result, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return Result{}, &DataAccessError{Op: "execute", Err: err}
	}
	defer rows.Close()

	var res Result
	if rows.Next() {
		if err := rows.Scan(&res.GeneratedID); err != nil {
			return Result{}, &DataAccessError{Op: "execute", Err: err}
		}
	}
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return Result{}, &DataAccessError{Op: "execute", Err: err}
	}
	res.RowsAffected = rows.CommandTag().RowsAffected()
	return res, nil
}
