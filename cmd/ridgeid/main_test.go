package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ridgeid/internal/capture"
	"ridgeid/internal/config"
	"ridgeid/internal/services"
	"ridgeid/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	imageDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	cfg.Capture.Source = config.CaptureSourceFile
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		imageDir:   filepath.Join(base, "images"),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) image(t *testing.T, name string, sides ...int) string {
	t.Helper()
	return testsupport.WritePNG(t, e.imageDir, name, testsupport.BlobImage(sides...))
}

func runCLI(t *testing.T, configPath, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, env.configPath, "", args...)
	if err != nil {
		t.Fatalf("%v: %v (stderr: %s)", args, err, stderr)
	}
	return out
}

func TestCLIStudentsCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRun(t, env, "students", "list")
	if !strings.Contains(out, "No students found") {
		t.Fatalf("expected empty roster message, got %q", out)
	}

	out = mustRun(t, env, "students", "add", "S1", "--first", "Ada", "--last", "Lovelace", "--department", "Mathematics", "--year", "2")
	if !strings.Contains(out, "Added student S1 (Ada Lovelace)") {
		t.Fatalf("unexpected add output: %q", out)
	}
	if _, _, err := runCLI(t, env.configPath, "", "students", "add", "S1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected duplicate to fail validation, got %v", err)
	}

	out = mustRun(t, env, "students", "list")
	if !strings.Contains(out, "S1") || !strings.Contains(out, "Mathematics") || !strings.Contains(strings.ToUpper(out), "ENROLLED") {
		t.Fatalf("unexpected list output: %q", out)
	}

	out = mustRun(t, env, "students", "show", "S1")
	for _, want := range []string{"Student Id: S1", "First Name: Ada", "Year Of Study: 2", "Enrolled: no"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q: %q", want, out)
		}
	}

	out = mustRun(t, env, "--json", "students", "list")
	var students []map[string]any
	if err := json.Unmarshal([]byte(out), &students); err != nil {
		t.Fatalf("decode json list: %v (%q)", err, out)
	}
	if len(students) != 1 || students[0]["student_id"] != "S1" {
		t.Fatalf("unexpected json list %v", students)
	}

	if _, _, err := runCLI(t, env.configPath, "", "students", "show", "S9"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mustRun(t, env, "students", "remove", "S1")
	if _, _, err := runCLI(t, env.configPath, "", "students", "remove", "S1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestCLIEnrollAndIdentify(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRun(t, env, "students", "add", "S1", "--first", "Ada", "--last", "Lovelace")
	mustRun(t, env, "students", "add", "S2", "--first", "Alan", "--last", "Turing")

	ada := env.image(t, "ada.png", 24, 24, 24)
	alan := env.image(t, "alan.png", 14)

	out := mustRun(t, env, "enroll", "S1", "--image", ada)
	if !strings.Contains(out, "Fingerprint enrolled for S1 (3 ridge blobs)") {
		t.Fatalf("unexpected enroll output: %q", out)
	}
	mustRun(t, env, "enroll", "S2", "--image", alan)

	out = mustRun(t, env, "identify", "--image", ada)
	if !strings.Contains(out, "Match found: Ada Lovelace") || !strings.Contains(out, "First Name: Ada") {
		t.Fatalf("unexpected identify output: %q", out)
	}
	if strings.Contains(out, "fingerprint_template") || strings.Contains(out, "Fingerprint Template") {
		t.Fatalf("identify output leaked template: %q", out)
	}

	out = mustRun(t, env, "--json", "identify", "--image", env.image(t, "stranger.png", 40, 12, 12, 12, 12, 12))
	var res identificationJSON
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode identify json: %v (%q)", err, out)
	}
	if res.Matched || res.Student != nil || res.Compared != 2 {
		t.Fatalf("expected no match over 2 candidates, got %+v", res)
	}

	mustRun(t, env, "students", "clear-template", "S1")
	out = mustRun(t, env, "--json", "identify", "--image", ada)
	res = identificationJSON{}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode identify json: %v", err)
	}
	if res.Matched || res.Compared != 1 {
		t.Fatalf("expected cleared template to be skipped from roster, got %+v", res)
	}
}

func TestCLIEnrollUnknownStudent(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env.configPath, "", "enroll", "ghost", "--image", env.image(t, "p.png", 20))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCLICompareAndTemplates(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.image(t, "a.png", 20, 20)
	b := env.image(t, "b.png", 20, 20)

	out := mustRun(t, env, "compare", a, b)
	if !strings.Contains(out, "Score: 1.0000") || !strings.Contains(out, "Match: yes") {
		t.Fatalf("unexpected compare output: %q", out)
	}

	encoded := strings.TrimSpace(mustRun(t, env, "template", "extract", a))
	if encoded == "" {
		t.Fatal("expected encoded template")
	}
	tplPath := filepath.Join(env.imageDir, "a.tpl")
	if err := os.WriteFile(tplPath, []byte(encoded+"\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	out = mustRun(t, env, "compare", tplPath, b)
	if !strings.Contains(out, "Match: yes") {
		t.Fatalf("template vs image compare failed: %q", out)
	}

	out = mustRun(t, env, "template", "inspect", tplPath)
	if !strings.Contains(out, "Ridge blobs: 2") || !strings.Contains(strings.ToUpper(out), "CIRCULARITY") {
		t.Fatalf("unexpected inspect output: %q", out)
	}

	out, _, err := runCLI(t, env.configPath, encoded, "template", "inspect", "-")
	if err != nil || !strings.Contains(out, "Ridge blobs: 2") {
		t.Fatalf("inspect from stdin: %v %q", err, out)
	}

	if _, _, err := runCLI(t, env.configPath, "", "template", "inspect", "bm90IGpzb24="); !errors.Is(err, services.ErrMalformedTemplate) {
		t.Fatalf("expected malformed template, got %v", err)
	}
}

func TestCLICaptureSnapshot(t *testing.T) {
	env := setupCLITestEnv(t)
	src := env.image(t, "frame.png", 18)
	target := filepath.Join(env.imageDir, "snap.pgm")

	out := mustRun(t, env, "capture", "--image", src, "--output", target)
	if !strings.Contains(out, "Saved") || !strings.Contains(out, "Ridge blobs: 1") {
		t.Fatalf("unexpected capture output: %q", out)
	}
	f, err := os.Open(target)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()
	raster, err := capture.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if raster.Channels != 1 {
		t.Fatalf("expected gray snapshot, got %d channels", raster.Channels)
	}
}

func TestCLISession(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRun(t, env, "students", "add", "S1", "--first", "Ada", "--last", "Lovelace")
	img := env.image(t, "ada.png", 22, 30)

	stdin := strings.Join([]string{
		"9",  // invalid choice
		"2",  // enroll
		"S1", // student id
		"",   // capture
		"1",  // identify
		"",   // capture
		"1",  // identify, then cancel
		"q",
		"quit",
	}, "\n") + "\n"

	out, stderr, err := runCLI(t, env.configPath, stdin, "session", "--image", img)
	if err != nil {
		t.Fatalf("session: %v (stderr: %s)", err, stderr)
	}
	for _, want := range []string{
		"Invalid choice. Please try again.",
		"Fingerprint enrolled for S1 (2 ridge blobs)",
		"Match found: Ada Lovelace",
		"Last Name: Lovelace",
		"No fingerprint captured",
		"Goodbye",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("session output missing %q:\n%s", want, out)
		}
	}
}

func TestCLISessionEndsOnEOF(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env.configPath, "", "session")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if !strings.Contains(out, "Goodbye") {
		t.Fatalf("expected goodbye on EOF, got %q", out)
	}
}

func TestCLICheck(t *testing.T) {
	env := setupCLITestEnv(t)
	img := env.image(t, "frame.png", 18)
	env.cfg.Capture.ImagePath = img
	writeTestConfig(t, env.configPath, env.cfg)

	out := mustRun(t, env, "--json", "check")
	var payload checkJSON
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode check json: %v (%q)", err, out)
	}
	if !payload.OK || payload.ConfigPath != env.configPath {
		t.Fatalf("unexpected check payload %+v", payload)
	}

	env.cfg.Capture.Source = config.CaptureSourceCamera
	writeTestConfig(t, env.configPath, env.cfg)
	out, _, err := runCLI(t, env.configPath, "", "check")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected check failure for missing device, got %v", err)
	}
	if !strings.Contains(out, "Capture device") || !strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected check output: %q", out)
	}
}

func TestCLIConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, "", "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, _, err := runCLI(t, "", "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwrite")
	}
	if _, _, err := runCLI(t, "", "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out = mustRun(t, env, "config", "validate")
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, env.configPath) {
		t.Fatalf("unexpected validate output: %q", out)
	}

	env.cfg.API.Token = "hunter2"
	writeTestConfig(t, env.configPath, env.cfg)
	out = mustRun(t, env, "config", "show")
	if !strings.Contains(out, "[capture]") || strings.Contains(out, "hunter2") {
		t.Fatalf("unexpected show output: %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[capture]\nsource = \"scanner\"\n"), 0o644); err != nil {
		t.Fatalf("write bad config: %v", err)
	}
	if _, _, err := runCLI(t, bad, "", "config", "validate"); err == nil {
		t.Fatal("expected invalid capture.source to fail validation")
	}
}
