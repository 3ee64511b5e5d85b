// Package matching scores ridge templates against each other and runs 1:N
// identification over a list of enrolled candidates.
//
// Scoring is pure and symmetric. Identification is a single linear pass with
// no shared state, so concurrent calls on independent inputs are safe.
package matching
