package roster_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ridgeid/internal/roster"
	"ridgeid/internal/testsupport"
)

func TestAddAndGetStudent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	st, err := store.AddStudent(ctx, roster.Student{
		StudentID:   "S001",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.edu",
		Department:  "Mathematics",
		YearOfStudy: 2,
	})
	if err != nil {
		t.Fatalf("AddStudent failed: %v", err)
	}
	if st.Status != roster.StatusActive || st.Enrolled {
		t.Fatalf("unexpected defaults: %+v", st)
	}
	if st.FullName() != "Ada Lovelace" {
		t.Fatalf("unexpected full name %q", st.FullName())
	}

	fetched, err := store.GetStudent(ctx, "S001")
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	if fetched == nil || fetched.Email != "ada@example.edu" || fetched.YearOfStudy != 2 {
		t.Fatalf("unexpected student %+v", fetched)
	}

	missing, err := store.GetStudent(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for missing student, got %+v %v", missing, err)
	}
}

func TestAddStudentRejectsDuplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.MustAddStudent(t, store, "S001", "Ada", "Lovelace")

	_, err := store.AddStudent(context.Background(), roster.Student{StudentID: "S001"})
	if !errors.Is(err, roster.ErrDuplicateStudent) {
		t.Fatalf("expected ErrDuplicateStudent, got %v", err)
	}
	if _, err := store.AddStudent(context.Background(), roster.Student{StudentID: "  "}); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestSetTemplateOverwrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.MustAddStudent(t, store, "S1", "Grace", "Hopper")

	if err := store.SetTemplate(ctx, "S1", "first"); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}
	if err := store.SetTemplate(ctx, "S1", "second"); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}
	encoded, ok, err := store.GetTemplate(ctx, "S1")
	if err != nil || !ok || encoded != "second" {
		t.Fatalf("expected second template, got %q ok=%v err=%v", encoded, ok, err)
	}

	enrolled, err := store.ListEnrolled(ctx)
	if err != nil {
		t.Fatalf("ListEnrolled failed: %v", err)
	}
	if len(enrolled) != 1 || enrolled[0].Template != "second" || !enrolled[0].Student.Enrolled {
		t.Fatalf("unexpected enrollments %+v", enrolled)
	}
	if enrolled[0].Student.TemplateUpdatedAt == nil {
		t.Fatal("expected template timestamp")
	}
}

func TestSetTemplateUnknownStudent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	err := store.SetTemplate(context.Background(), "ghost", "abc")
	if !errors.Is(err, roster.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
	if _, _, err := store.GetTemplate(context.Background(), "ghost"); !errors.Is(err, roster.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestListEnrolledSkipsStudentsWithoutTemplates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	for _, id := range []string{"C", "A", "B"} {
		testsupport.MustAddStudent(t, store, id, "First", id)
	}
	if err := store.SetTemplate(ctx, "B", "tb"); err != nil {
		t.Fatalf("SetTemplate: %v", err)
	}
	if err := store.SetTemplate(ctx, "C", "tc"); err != nil {
		t.Fatalf("SetTemplate: %v", err)
	}

	enrolled, err := store.ListEnrolled(ctx)
	if err != nil {
		t.Fatalf("ListEnrolled failed: %v", err)
	}
	if len(enrolled) != 2 || enrolled[0].Student.StudentID != "C" || enrolled[1].Student.StudentID != "B" {
		t.Fatalf("expected insertion order C, B; got %+v", enrolled)
	}

	all, err := store.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents failed: %v", err)
	}
	if len(all) != 3 || all[1].StudentID != "A" || all[1].Enrolled {
		t.Fatalf("unexpected students %+v", all)
	}
}

func TestClearTemplateAndRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.MustAddStudent(t, store, "S1", "Alan", "Turing")
	if err := store.SetTemplate(ctx, "S1", "t"); err != nil {
		t.Fatalf("SetTemplate: %v", err)
	}
	if err := store.ClearTemplate(ctx, "S1"); err != nil {
		t.Fatalf("ClearTemplate: %v", err)
	}
	if _, ok, err := store.GetTemplate(ctx, "S1"); err != nil || ok {
		t.Fatalf("expected no template, ok=%v err=%v", ok, err)
	}
	if err := store.RemoveStudent(ctx, "S1"); err != nil {
		t.Fatalf("RemoveStudent: %v", err)
	}
	if err := store.RemoveStudent(ctx, "S1"); !errors.Is(err, roster.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound on second remove, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "roster.db")
	store, err := roster.OpenPath(path, 0)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	testsupport.MustAddStudent(t, store, "S9", "Katherine", "Johnson")
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := roster.OpenPath(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
	if err := reopened.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	st, err := reopened.GetStudent(context.Background(), "S9")
	if err != nil || st == nil {
		t.Fatalf("expected student after reopen, got %+v %v", st, err)
	}
}
