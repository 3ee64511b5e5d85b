package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const studentColumns = "student_id, first_name, last_name, email, phone, department, year_of_study, enrollment_date, status, fingerprint_template IS NOT NULL, template_updated_at, created_at, updated_at"

// AddStudent inserts a new roster entry. The student is created without a
// template.
func (s *Store) AddStudent(ctx context.Context, st Student) (*Student, error) {
	st.StudentID = strings.TrimSpace(st.StudentID)
	if st.StudentID == "" {
		return nil, errors.New("student id is required")
	}
	if strings.TrimSpace(st.Status) == "" {
		st.Status = StatusActive
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO students (
            student_id, first_name, last_name, email, phone, department,
            year_of_study, enrollment_date, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.StudentID,
		strings.TrimSpace(st.FirstName),
		strings.TrimSpace(st.LastName),
		nullableString(st.Email),
		nullableString(st.Phone),
		nullableString(st.Department),
		nullableInt(st.YearOfStudy),
		nullableString(st.EnrollmentDate),
		st.Status,
		timestamp,
		timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStudent, st.StudentID)
		}
		return nil, fmt.Errorf("insert student: %w", err)
	}
	return s.GetStudent(ctx, st.StudentID)
}

// GetStudent fetches a student by ID. A missing student returns (nil, nil).
func (s *Store) GetStudent(ctx context.Context, id string) (*Student, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+studentColumns+` FROM students WHERE student_id = ?`, id)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return st, nil
}

// ListStudents returns every student in insertion order.
func (s *Store) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+studentColumns+` FROM students ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

// RemoveStudent deletes a student and any enrolled template.
func (s *Store) RemoveStudent(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM students WHERE student_id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove student: %w", err)
	}
	return requireAffected(res, id)
}

func scanStudent(scanner interface{ Scan(dest ...any) error }) (*Student, error) {
	var (
		st             Student
		email          sql.NullString
		phone          sql.NullString
		department     sql.NullString
		yearOfStudy    sql.NullInt64
		enrollmentDate sql.NullString
		enrolled       bool
		templateAtRaw  sql.NullString
		createdRaw     string
		updatedRaw     string
	)
	if err := scanner.Scan(
		&st.StudentID,
		&st.FirstName,
		&st.LastName,
		&email,
		&phone,
		&department,
		&yearOfStudy,
		&enrollmentDate,
		&st.Status,
		&enrolled,
		&templateAtRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	st.Email = email.String
	st.Phone = phone.String
	st.Department = department.String
	st.YearOfStudy = int(yearOfStudy.Int64)
	st.EnrollmentDate = enrollmentDate.String
	st.Enrolled = enrolled
	if templateAtRaw.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, templateAtRaw.String); err == nil {
			st.TemplateUpdatedAt = &ts
		}
	}
	st.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdRaw)
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedRaw)
	return &st, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.TrimSpace(value)
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrStudentNotFound, id)
	}
	return nil
}
