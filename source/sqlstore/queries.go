package sqlstore

import (
	"database/sql"
	"strings"
	"time"

	"github.com/katalvlaran/civicindex/request"
)

// requestColumns is the column order scanRequest expects.
const requestColumns = "id, owner_id, title, description, category, location, priority, status, submitted_at, completed_at, tracking_code"

// selectQuery renders the SELECT for f with dialect placeholders.
func (s *Store) selectQuery(f request.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return s.dialect.placeholder(len(args))
	}

	if f.OwnerID != "" {
		where = append(where, "owner_id = "+next(f.OwnerID))
	}
	if f.TrackingCode != "" {
		where = append(where, "tracking_code = "+next(f.TrackingCode))
	}
	if f.Category != "" {
		where = append(where, "LOWER(category) = LOWER("+next(f.Category)+")")
	}
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			marks[i] = next(string(st))
		}
		where = append(where, "status IN ("+strings.Join(marks, ", ")+")")
	}

	q := "SELECT " + requestColumns + " FROM requests"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q + " ORDER BY id", args
}

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanRequest scans one row in requestColumns order.
func scanRequest(row scannable) (*request.Request, error) {
	var (
		r           request.Request
		description sql.NullString
		category    sql.NullString
		location    sql.NullString
		status      string
		completedAt sql.NullTime
	)
	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Title,
		&description,
		&category,
		&location,
		&r.Priority,
		&status,
		&r.SubmittedAt,
		&completedAt,
		&r.TrackingCode,
	)
	if err != nil {
		return nil, err
	}

	st, err := request.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	r.Status = st
	r.Description = description.String
	r.Category = category.String
	r.Location = location.String
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
