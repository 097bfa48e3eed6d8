// Package sqlstore implements source.Source over a database/sql "requests"
// table. SQLite (modernc.org/sqlite, pure Go) and PostgreSQL (lib/pq) are
// supported; the dialect only changes placeholders and the migration set.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/civicindex/request"
	"github.com/katalvlaran/civicindex/source"
)

//go:embed migrations
var migrationsFS embed.FS

// Dialect captures the differences between supported databases.
type Dialect struct {
	// Name is the database/sql driver name and the migration subdirectory.
	Name string

	placeholder func(n int) string
}

var (
	// SQLite uses "?" placeholders.
	SQLite = Dialect{Name: "sqlite", placeholder: func(int) string { return "?" }}

	// Postgres uses "$n" placeholders.
	Postgres = Dialect{Name: "postgres", placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
)

// Store reads and writes requests in a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Compile-time check that Store implements source.Source.
var _ source.Source = (*Store)(nil)

// New wraps an open database. The schema is not touched; call Migrate.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d}
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies pending migrations.
func OpenSQLite(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", source.ErrRecordSourceUnavailable, err)
	}
	return open(db, SQLite)
}

// OpenPostgres connects to the PostgreSQL database at url, configures the
// connection pool, and applies pending migrations.
func OpenPostgres(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %w", source.ErrRecordSourceUnavailable, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return open(db, Postgres)
}

func open(db *sql.DB, d Dialect) (*Store, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", source.ErrRecordSourceUnavailable, d.Name, err)
	}
	s := New(db, d)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the embedded migrations for the store's dialect.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations/"+s.dialect.Name)
	if err != nil {
		return fmt.Errorf("sqlstore: migration source: %w", err)
	}

	var m *migrate.Migrate
	switch s.dialect.Name {
	case SQLite.Name:
		drv, derr := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
		if derr != nil {
			return fmt.Errorf("%w: migration driver: %w", source.ErrRecordSourceUnavailable, derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", drv)
	case Postgres.Name:
		drv, derr := migratepg.WithInstance(s.db, &migratepg.Config{})
		if derr != nil {
			return fmt.Errorf("%w: migration driver: %w", source.ErrRecordSourceUnavailable, derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", drv)
	default:
		return fmt.Errorf("sqlstore: unknown dialect %q", s.dialect.Name)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: create migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("sqlstore: apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stream queries the requests matching f in ascending ID order. Rows are
// scanned one at a time as the consumer pulls them. Any driver, query or
// scan failure is yielded wrapped in source.ErrRecordSourceUnavailable.
func (s *Store) Stream(ctx context.Context, f request.Filter) iter.Seq2[*request.Request, error] {
	return func(yield func(*request.Request, error) bool) {
		query, args := s.selectQuery(f)
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("%w: query requests: %w", source.ErrRecordSourceUnavailable, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			r, err := scanRequest(rows)
			if err != nil {
				yield(nil, fmt.Errorf("%w: scan request: %w", source.ErrRecordSourceUnavailable, err))
				return
			}
			if !yield(r, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("%w: iterate requests: %w", source.ErrRecordSourceUnavailable, err))
		}
	}
}

// Insert stores r, applying the same defaults as source.Memory.Add, and
// sets r.ID and r.TrackingCode to the stored values.
func (s *Store) Insert(ctx context.Context, r *request.Request) error {
	if r.Priority == 0 {
		r.Priority = request.DefaultPriority
	}
	if r.Status == "" {
		r.Status = request.StatusSubmitted
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if r.TrackingCode == "" {
		code, err := request.NewTrackingCode()
		if err != nil {
			return err
		}
		r.TrackingCode = code
	}

	cols := []string{"owner_id", "title", "description", "category", "location",
		"priority", "status", "submitted_at", "completed_at", "tracking_code"}
	args := []any{r.OwnerID, r.Title, nullString(r.Description), nullString(r.Category),
		nullString(r.Location), r.Priority, string(r.Status), r.SubmittedAt,
		nullTimePtr(r.CompletedAt), r.TrackingCode}
	if r.ID != 0 {
		cols = append([]string{"id"}, cols...)
		args = append([]any{r.ID}, args...)
	}
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = s.dialect.placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO requests (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "), strings.Join(marks, ", "))

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID); err != nil {
		return fmt.Errorf("%w: insert request: %w", source.ErrRecordSourceUnavailable, err)
	}
	return nil
}

// SetStatus updates a request's status, stamping or clearing completed_at.
func (s *Store) SetStatus(ctx context.Context, id int64, status request.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", request.ErrInvalidStatus, status)
	}
	var completed sql.NullTime
	if status == request.StatusCompleted {
		completed = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}
	p := s.dialect.placeholder
	query := fmt.Sprintf("UPDATE requests SET status = %s, completed_at = %s WHERE id = %s", p(1), p(2), p(3))
	res, err := s.db.ExecContext(ctx, query, string(status), completed, id)
	if err != nil {
		return fmt.Errorf("%w: update status: %w", source.ErrRecordSourceUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", source.ErrNotFound, id)
	}
	return nil
}
