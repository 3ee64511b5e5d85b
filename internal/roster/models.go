package roster

import (
	"errors"
	"time"
)

var (
	// ErrStudentNotFound is returned when an operation names an unknown student.
	ErrStudentNotFound = errors.New("student not found")
	// ErrDuplicateStudent is returned when adding a student whose ID already exists.
	ErrDuplicateStudent = errors.New("student already exists")
)

// Status values for a roster entry.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
)

// Student is an identity record. It never carries the encoded template.
type Student struct {
	StudentID         string     `json:"student_id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Department        string     `json:"department,omitempty"`
	YearOfStudy       int        `json:"year_of_study,omitempty"`
	EnrollmentDate    string     `json:"enrollment_date,omitempty"`
	Status            string     `json:"status"`
	Enrolled          bool       `json:"enrolled"`
	TemplateUpdatedAt *time.Time `json:"template_updated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FullName joins the first and last name.
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Enrollment pairs a student with the encoded template stored for them.
type Enrollment struct {
	Student  Student
	Template string
}
