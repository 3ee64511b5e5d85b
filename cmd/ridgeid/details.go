package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ridgeid/internal/reader"
	"ridgeid/internal/roster"
)

var titleCaser = cases.Title(language.English)

// detailLabel turns a column key like "year_of_study" into "Year Of Study".
func detailLabel(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

type detailField struct {
	key   string
	value string
}

func studentFields(st roster.Student) []detailField {
	fields := []detailField{
		{"student_id", st.StudentID},
		{"first_name", st.FirstName},
		{"last_name", st.LastName},
		{"email", st.Email},
		{"phone", st.Phone},
		{"department", st.Department},
	}
	if st.YearOfStudy > 0 {
		fields = append(fields, detailField{"year_of_study", strconv.Itoa(st.YearOfStudy)})
	}
	fields = append(fields,
		detailField{"enrollment_date", st.EnrollmentDate},
		detailField{"status", st.Status},
		detailField{"enrolled", yesNo(st.Enrolled)},
	)
	if st.TemplateUpdatedAt != nil {
		fields = append(fields, detailField{"template_updated_at", st.TemplateUpdatedAt.Local().Format(time.DateTime)})
	}
	return fields
}

// printStudentDetails writes one "Label: value" line per populated field.
func printStudentDetails(w io.Writer, st roster.Student) {
	for _, f := range studentFields(st) {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", detailLabel(f.key), f.value)
	}
}

func printIdentification(w io.Writer, res reader.Identification) {
	if !res.Matched || res.Student == nil {
		fmt.Fprintf(w, "No matching student found (best score: %.2f, compared %d)\n", res.BestScore, res.Compared)
		return
	}
	fmt.Fprintf(w, "Match found: %s (score: %.2f)\n", res.Student.FullName(), res.Score)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Student Details:")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	printStudentDetails(w, *res.Student)
}

type identificationJSON struct {
	Matched   bool            `json:"matched"`
	Student   *roster.Student `json:"student,omitempty"`
	Score     float64         `json:"score"`
	BestScore float64         `json:"best_score"`
	Compared  int             `json:"compared"`
	Skipped   []string        `json:"skipped,omitempty"`
	ProbeHash string          `json:"probe_hash,omitempty"`
	Blobs     int             `json:"probe_blobs"`
}

func toIdentificationJSON(res reader.Identification) identificationJSON {
	out := identificationJSON{
		Matched:   res.Matched,
		Student:   res.Student,
		Score:     res.Score,
		BestScore: res.BestScore,
		Compared:  res.Compared,
		ProbeHash: res.ProbeHash,
		Blobs:     res.Blobs,
	}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, s.Key)
	}
	return out
}
