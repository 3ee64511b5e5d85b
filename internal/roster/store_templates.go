package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListEnrolled returns every student that has a stored template, in
// insertion order, together with the encoded template text.
func (s *Store) ListEnrolled(ctx context.Context) ([]Enrollment, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+studentColumns+`, fingerprint_template FROM students
         WHERE fingerprint_template IS NOT NULL ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list enrolled: %w", err)
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		var encoded string
		st, err := scanStudent(scannerFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &encoded)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, Enrollment{Student: *st, Template: encoded})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrolled: %w", err)
	}
	return out, nil
}

// SetTemplate stores encoded as the student's template, replacing any prior
// value. Unknown students return ErrStudentNotFound.
func (s *Store) SetTemplate(ctx context.Context, id, encoded string) error {
	if strings.TrimSpace(encoded) == "" {
		return errors.New("encoded template is empty")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE students SET fingerprint_template = ?, template_updated_at = ?, updated_at = ?
         WHERE student_id = ?`,
		encoded, timestamp, timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("set template: %w", err)
	}
	return requireAffected(res, id)
}

// GetTemplate returns the stored template text for a student. ok is false
// when the student exists but has none.
func (s *Store) GetTemplate(ctx context.Context, id string) (encoded string, ok bool, err error) {
	var value sql.NullString
	err = s.db.QueryRowContext(ensureContext(ctx),
		`SELECT fingerprint_template FROM students WHERE student_id = ?`, id,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("%w: %s", ErrStudentNotFound, id)
	}
	if err != nil {
		return "", false, fmt.Errorf("get template: %w", err)
	}
	return value.String, value.Valid, nil
}

// ClearTemplate removes a student's template, leaving the identity record.
func (s *Store) ClearTemplate(ctx context.Context, id string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE students SET fingerprint_template = NULL, template_updated_at = NULL, updated_at = ?
         WHERE student_id = ?`,
		timestamp, id,
	)
	if err != nil {
		return fmt.Errorf("clear template: %w", err)
	}
	return requireAffected(res, id)
}

type scannerFunc func(dest ...any) error

func (f scannerFunc) Scan(dest ...any) error { return f(dest...) }
