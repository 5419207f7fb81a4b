// Package entity resolves entity casts of route parameters against an SQL database.
//
// An entity is a table, the cast column is looked up with the raw path value and the
// first matching row is handed to the dispatch target as a Record.
package entity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/bassbeaver/gdispatch/config"
	"github.com/bassbeaver/gdispatch/helper"
	"github.com/bassbeaver/gdispatch/route"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Record is one row, column name to value. Text columns are strings.
type Record map[string]interface{}

func (r Record) String(column string) string {
	value, exists := r[column]
	if !exists || nil == value {
		return ""
	}

	return fmt.Sprintf("%v", value)
}

type Option func(*SQLResolver)

// WithTables maps entity names to table names.
func WithTables(tables map[string]string) Option {
	return func(r *SQLResolver) {
		for entity, table := range tables {
			r.tables[entity] = table
		}
	}
}

// WithDollarPlaceholders switches bind parameters from "?" to "$1", as PostgreSQL expects.
func WithDollarPlaceholders() Option {
	return func(r *SQLResolver) {
		r.dollarPlaceholders = true
	}
}

//--------------------

type SQLResolver struct {
	db                 *sql.DB
	tables             map[string]string
	dollarPlaceholders bool
	columns            map[string][]string
	columnsMutex       sync.RWMutex
}

// Columns lists the columns of an entity table. Results are cached.
func (r *SQLResolver) Columns(entity string) ([]string, error) {
	r.columnsMutex.RLock()
	cached, isCached := r.columns[entity]
	r.columnsMutex.RUnlock()
	if isCached {
		return cached, nil
	}

	table, tableError := r.table(entity)
	if nil != tableError {
		return nil, tableError
	}

	rows, queryError := r.db.Query("SELECT * FROM " + table + " WHERE 1 = 0")
	if nil != queryError {
		return nil, fmt.Errorf("entity %s: %w", entity, queryError)
	}
	defer rows.Close()

	columns, columnsError := rows.Columns()
	if nil != columnsError {
		return nil, fmt.Errorf("entity %s: %w", entity, columnsError)
	}

	r.columnsMutex.Lock()
	r.columns[entity] = columns
	r.columnsMutex.Unlock()

	return columns, nil
}

// Resolve loads the first row of the entity table whose column equals value.
// route.ErrEntityNotFound is wrapped when there is none.
func (r *SQLResolver) Resolve(ctx context.Context, entity, column, value string) (interface{}, error) {
	columns, columnsError := r.Columns(entity)
	if nil != columnsError {
		return nil, columnsError
	}
	if !helper.StringInSlice(column, columns) {
		return nil, fmt.Errorf("entity %s has no column %s", entity, column)
	}

	table, _ := r.table(entity)
	query := "SELECT * FROM " + table + " WHERE " + column + " = " + r.placeholder(1) + " LIMIT 1"

	rows, queryError := r.db.QueryContext(ctx, query, value)
	if nil != queryError {
		return nil, fmt.Errorf("entity %s: %w", entity, queryError)
	}
	defer rows.Close()

	if !rows.Next() {
		if nil != rows.Err() {
			return nil, fmt.Errorf("entity %s: %w", entity, rows.Err())
		}

		return nil, fmt.Errorf("entity %s with %s = %q: %w", entity, column, value, route.ErrEntityNotFound)
	}

	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if scanError := rows.Scan(pointers...); nil != scanError {
		return nil, fmt.Errorf("entity %s: %w", entity, scanError)
	}

	record := make(Record, len(columns))
	for i, name := range columns {
		if raw, isBytes := values[i].([]byte); isBytes {
			record[name] = string(raw)
			continue
		}
		record[name] = values[i]
	}

	return record, nil
}

func (r *SQLResolver) Close() error {
	return r.db.Close()
}

func (r *SQLResolver) table(entity string) (string, error) {
	table, mapped := r.tables[entity]
	if !mapped {
		table = entity
	}
	if !identifierRegex.MatchString(table) {
		return "", fmt.Errorf("entity %s: %q is not a valid table name", entity, table)
	}

	return table, nil
}

func (r *SQLResolver) placeholder(position int) string {
	if r.dollarPlaceholders {
		return fmt.Sprintf("$%d", position)
	}

	return "?"
}

//--------------------

func NewSQLResolver(db *sql.DB, options ...Option) *SQLResolver {
	r := &SQLResolver{
		db:      db,
		tables:  make(map[string]string),
		columns: make(map[string][]string),
	}
	for _, option := range options {
		option(r)
	}

	return r
}

// Open connects to the configured database. PostgreSQL connections use dollar placeholders.
func Open(cfg config.EntityConfig) (*SQLResolver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("entity database is not configured")
	}

	db, openError := sql.Open(cfg.Driver, cfg.DSN)
	if nil != openError {
		return nil, fmt.Errorf("failed to open entity database: %w", openError)
	}
	if pingError := db.Ping(); nil != pingError {
		_ = db.Close()

		return nil, fmt.Errorf("failed to connect to entity database: %w", pingError)
	}

	options := []Option{WithTables(cfg.Tables)}
	if DriverPostgres == strings.ToLower(cfg.Driver) {
		options = append(options, WithDollarPlaceholders())
	}

	return NewSQLResolver(db, options...), nil
}
