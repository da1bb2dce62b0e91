package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guestroom/infras/otel"
	"guestroom/infras/postgres"
	"guestroom/shared/constant"
	"guestroom/shared/dto"
	"guestroom/shared/logger"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

// joiner is implemented by read models that select across tables.
type joiner interface {
	GetJoinQuery() string
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type column struct {
	name  string
	table string
	alias string
}

func (c column) selectExpr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return c.table + "." + c.name
	}
}

// Repository maps T onto table through its db tags. Fields tagged with another table are read
// through the join of T and never written.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	insertColumns []string
	join          string
}

func NewRepository[T any](entity, table, primaryColumn string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(table, reflect.TypeOf(zero))

	join := ""
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	return Repository[T]{
		db:            db,
		otel:          otl,
		table:         table,
		entity:        entity,
		primaryColumn: primaryColumn,
		columns:       columns,
		insertColumns: insertColumns,
		join:          join,
	}
}

func (repo *Repository[T]) newScope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

// get runs a named query that yields one row into dest. A missing row leaves dest untouched.
func (repo *Repository[T]) get(ctx context.Context, scope otel.Scope, query string, args map[string]any, dest any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, dest, args)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return repo.fail(scope, "get data", err)
	}

	return nil
}

func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, exec execer, action, query string, arg any) error {
	_, err := repo.execCount(ctx, scope, exec, action, query, arg)

	return err
}

// execCount runs a statement and reports how many rows it touched.
func (repo *Repository[T]) execCount(ctx context.Context, scope otel.Scope, exec execer, action, query string, arg any) (int64, error) {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := exec.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, repo.fail(scope, action, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, action, err)
	}

	return affected, nil
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.insertColumns))
	for i, col := range repo.insertColumns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.insertColumns, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.newScope(ctx, "Insert")
	defer scope.End()

	return repo.exec(ctx, scope, repo.db.Write, "insert data", repo.insertQuery(), model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, tx *sqlx.Tx, model T) error {
	ctx, scope := repo.newScope(ctx, "InsertTx")
	defer scope.End()

	return repo.exec(ctx, scope, tx, "insert data", repo.insertQuery(), model)
}

// InsertBulkTx writes all models with one multi-row insert. An empty slice is a no-op.
func (repo *Repository[T]) InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []T) error {
	if len(models) == 0 {
		return nil
	}

	ctx, scope := repo.newScope(ctx, "InsertBulkTx")
	defer scope.End()

	return repo.exec(ctx, scope, tx, "bulk insert data", repo.insertQuery(), models)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.newScope(ctx, "Exist")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return false, errRequiredFilter
	}

	exist := false
	err := repo.get(ctx, scope, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where), args, &exist)

	return exist, err
}

// Get returns the first matching row, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.newScope(ctx, "Get")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns...), repo.table, repo.join, where)

	var model T
	err := repo.get(ctx, scope, query, args, &model)

	return model, err
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.newScope(ctx, "GetAll")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	clauses := []string{fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns...), repo.table, repo.join, where)}

	if params.SortBy != "" && params.SortDir != "" {
		clauses = append(clauses, fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir))
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		clauses = append(clauses, "LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = params.Offset()
			clauses = append(clauses, "OFFSET :offset")
		}
	}

	query := strings.Join(clauses, " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.newScope(ctx, "Count")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	count := 0
	err := repo.get(ctx, scope, fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where), args, &count)

	return count, err
}

func (repo *Repository[T]) deleteQuery(ctx context.Context, filter dto.FilterGroup) (string, map[string]any, error) {
	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return "", nil, errRequiredFilter
	}

	return fmt.Sprintf("DELETE FROM %s %s", repo.table, where), args, nil
}

// Delete refuses an empty filter so a table is never wiped by accident.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.newScope(ctx, "Delete")
	defer scope.End()

	query, args, err := repo.deleteQuery(ctx, filter)
	if err != nil {
		return err
	}

	return repo.exec(ctx, scope, repo.db.Write, "delete data", query, args)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) error {
	ctx, scope := repo.newScope(ctx, "DeleteTx")
	defer scope.End()

	query, args, err := repo.deleteQuery(ctx, filter)
	if err != nil {
		return err
	}

	return repo.exec(ctx, scope, tx, "delete data", query, args)
}

// updateQuery binds the new values under set_ prefixed names so they never collide with filter args.
func (repo *Repository[T]) updateQuery(ctx context.Context, fields map[string]any, filter dto.FilterGroup) (string, map[string]any, error) {
	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return "", nil, errRequiredFilter
	}

	assignments := make([]string, 0, len(fields))

	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, fmt.Sprintf("%s = :set_%s", col, col))
		args["set_"+col] = fields[col]
	}

	return fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where), args, nil
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.newScope(ctx, "Update")
	defer scope.End()

	query, args, err := repo.updateQuery(ctx, fields, filter)
	if err != nil {
		return err
	}

	return repo.exec(ctx, scope, repo.db.Write, "update data", query, args)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.newScope(ctx, "UpdateTx")
	defer scope.End()

	query, args, err := repo.updateQuery(ctx, fields, filter)
	if err != nil {
		return err
	}

	return repo.exec(ctx, scope, tx, "update data", query, args)
}

// Transaction runs fn inside a write transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; fn's error is returned unwrapped.
// UpdateCountTx is UpdateTx returning the number of matched rows. A guarded transition
// (a filter on the current state) matches nothing once another writer has moved the row.
func (repo *Repository[T]) UpdateCountTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.newScope(ctx, "UpdateCountTx")
	defer scope.End()

	query, args, err := repo.updateQuery(ctx, fields, filter)
	if err != nil {
		return 0, err
	}

	return repo.execCount(ctx, scope, tx, "update data", query, args)
}

func (repo *Repository[T]) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, scope := repo.newScope(ctx, "Transaction")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", repo.entity, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorWithStack(rbErr)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) Table() string {
	return repo.table
}

// SelectColumns returns the select list used by Get and GetAll.
func (repo *Repository[T]) SelectColumns(_ context.Context) string {
	return repo.selectList()
}

func (repo *Repository[T]) selectList(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

func (repo *Repository[T]) BuildWhereClause(_ context.Context, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where + " ", args
}

// getColumns walks db tags, descending into embedded structs. A table tag moves the column to
// a joined table and a column tag selects it under the db tag as alias.
func getColumns(table string, typ reflect.Type) (columns []column, insertColumns []string) {
	for i := range typ.NumField() {
		field := typ.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := getColumns(table, field.Type)
			columns = append(columns, nested...)
			insertColumns = append(insertColumns, nestedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: owner, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: owner})
		}
	}

	return columns, insertColumns
}
