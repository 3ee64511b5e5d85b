// Package roster persists students and their enrolled templates in SQLite.
//
// The store owns the only copy of each encoded template. Reads handed to the
// matching layer carry the encoded text alongside the student, while Student
// values returned to callers never include it.
package roster
