package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/geotagsync/pkg/classify"
	"github.com/sdejongh/geotagsync/pkg/config"
	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/metadata"
	"github.com/sdejongh/geotagsync/pkg/models"
	"github.com/sdejongh/geotagsync/pkg/output"
	"github.com/sdejongh/geotagsync/pkg/propagate"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the command tree against fake with an empty HOME
func runCLI(t *testing.T, fake *metadata.Fake, args ...string) cliResult {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, Options{
		Stdout:  &stdout,
		Stderr:  &stderr,
		NewTool: func(*config.Config) metadata.Tool { return fake },
	})
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// photoTree returns a real directory and a fake tool describing its images
func photoTree(t *testing.T, files map[string]bool) (string, *metadata.Fake) {
	t.Helper()
	root := t.TempDir()
	abs := make(map[string]bool, len(files))
	for name, tagged := range files {
		abs[filepath.Join(root, name)] = tagged
	}
	return root, metadata.NewFake(abs)
}

// ============== Argument Tests ==============

func TestArguments(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"MissingSearchPath", []string{}, ExitUsage, "missing search path"},
		{"TooManyArguments", []string{"/a", "/b", "/c"}, ExitUsage, "too many arguments"},
		{"UnknownFlag", []string{"--bogus", "/a"}, ExitUsage, "unknown flag: --bogus"},
		{"EmptySearchPath", []string{""}, ExitUsage, "search path is required"},
		{"BadOutputFlag", []string{"-o", "xml", "/a"}, ExitUsage, "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, metadata.NewFake(nil), tt.args...)
			if res.code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", res.code, tt.code, res.stderr)
			}
			if !strings.Contains(res.stderr, tt.stderr) {
				t.Errorf("stderr = %q, want %q", res.stderr, tt.stderr)
			}
			if !strings.Contains(res.stderr, "Usage:") {
				t.Errorf("usage errors should print the usage line: %q", res.stderr)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	for _, flag := range []string{"--help", "-h"} {
		res := runCLI(t, metadata.NewFake(nil), flag)
		if res.code != ExitOK {
			t.Errorf("%s exit code = %d", flag, res.code)
		}
		if !strings.Contains(res.stdout, "--dry-run") {
			t.Errorf("%s output = %q", flag, res.stdout)
		}
	}
}

// ============== Propagation Tests ==============

func TestPropagateAmbiguous(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{
		"a.jpg": true, "b.jpg": true,
		"c.jpg": false, "d.jpg": false, "e.jpg": false,
	})

	res := runCLI(t, fake, root)
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}
	if len(fake.Copies()) != 0 {
		t.Error("ambiguous run must not copy anything")
	}
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
		if !strings.Contains(res.stdout, filepath.Join(root, name)) {
			t.Errorf("output does not list %s", name)
		}
	}
	if !strings.Contains(res.stdout, "Found 2 geotagged images") {
		t.Errorf("stdout = %s", res.stdout)
	}
}

func TestPropagateAutoSelected(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{
		"ref.jpg": true, "x.jpg": false, "y z.jpg": false,
	})

	res := runCLI(t, fake, root)
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}

	copies := fake.Copies()
	if len(copies) != 1 {
		t.Fatalf("got %d copy calls, want 1", len(copies))
	}
	if copies[0].Reference != filepath.Join(root, "ref.jpg") {
		t.Errorf("reference = %s", copies[0].Reference)
	}
	want := []string{filepath.Join(root, "x.jpg"), filepath.Join(root, "y z.jpg")}
	if strings.Join(copies[0].Targets, "|") != strings.Join(want, "|") {
		t.Errorf("targets = %v, want %v", copies[0].Targets, want)
	}
	if !strings.Contains(res.stdout, "Copied geotag to 2 files.") {
		t.Errorf("stdout = %s", res.stdout)
	}

	t.Run("SecondRunHasNothingToDo", func(t *testing.T) {
		res := runCLI(t, fake, root)
		if res.code != ExitOK || len(fake.Copies()) != 1 {
			t.Errorf("exit code = %d, copies = %d", res.code, len(fake.Copies()))
		}
		if !strings.Contains(res.stdout, "All 3 images already have a geotag") {
			t.Errorf("stdout = %s", res.stdout)
		}
	})
}

func TestPropagateDryRun(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{"ref.jpg": true, "x.jpg": false})

	for _, flag := range []string{"--dry-run", "-d"} {
		res := runCLI(t, fake, flag, root)
		if res.code != ExitOK {
			t.Fatalf("%s exit code = %d, stderr = %s", flag, res.code, res.stderr)
		}
		if len(fake.Copies()) != 0 || fake.Files[filepath.Join(root, "x.jpg")] {
			t.Errorf("%s modified files", flag)
		}
		if !strings.Contains(res.stdout, "-tagsFromFile "+filepath.Join(root, "ref.jpg")) ||
			!strings.Contains(res.stdout, "\n"+filepath.Join(root, "x.jpg")+"\n") {
			t.Errorf("%s output lacks the command:\n%s", flag, res.stdout)
		}
	}
}

func TestPropagateExplicitReference(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{
		"a.jpg": true, "b.jpg": true, "c.jpg": false,
	})
	ref := filepath.Join(t.TempDir(), "elsewhere.jpg")

	res := runCLI(t, fake, root, ref)
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}
	copies := fake.Copies()
	if len(copies) != 1 || copies[0].Reference != ref || len(copies[0].Targets) != 1 {
		t.Errorf("copies = %+v", copies)
	}
	if !strings.Contains(res.stdout, "given on the command line") {
		t.Errorf("stdout = %s", res.stdout)
	}
}

func TestPropagateRelativeReference(t *testing.T) {
	t.Chdir(t.TempDir())
	fake := metadata.NewFake(map[string]bool{
		"./ref.jpg": false, "./a.jpg": false, "./tagged.jpg": true,
	})

	res := runCLI(t, fake, ".", "ref.jpg")
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}
	copies := fake.Copies()
	if len(copies) != 1 {
		t.Fatalf("got %d copy calls, want 1", len(copies))
	}
	if copies[0].Reference != "ref.jpg" || strings.Join(copies[0].Targets, "|") != "./a.jpg" {
		t.Errorf("copy = %+v, the reference must not be its own target", copies[0])
	}
}

func TestPropagateDryRunNothingToCopy(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{"a.jpg": true, "b.jpg": true})

	res := runCLI(t, fake, "-d", root, filepath.Join(root, "a.jpg"))
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}
	if strings.Contains(res.stdout, "-tagsFromFile") || strings.Contains(res.stdout, "would be updated") {
		t.Errorf("dry run printed a command for an empty plan:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "nothing to copy") {
		t.Errorf("stdout = %s", res.stdout)
	}
}

func TestPropagateNoReference(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{"c.jpg": false, "d.jpg": false})

	res := runCLI(t, fake, root)
	if res.code != ExitOK {
		t.Errorf("exit code = %d", res.code)
	}
	if !strings.Contains(res.stdout, "No geotagged image found") {
		t.Errorf("stdout = %s", res.stdout)
	}
}

func TestPropagateFailures(t *testing.T) {
	t.Run("InvalidPath", func(t *testing.T) {
		res := runCLI(t, metadata.NewFake(nil), filepath.Join(t.TempDir(), "missing"))
		if res.code != ExitFailure {
			t.Errorf("exit code = %d, want %d", res.code, ExitFailure)
		}
		if strings.Count(res.stderr, "Error:") != 1 || !strings.Contains(res.stderr, "does not exist") {
			t.Errorf("stderr = %q", res.stderr)
		}
	})

	t.Run("ToolMissing", func(t *testing.T) {
		root, fake := photoTree(t, nil)
		fake.QueryErr = &models.ToolInvocationError{Op: "query", ExitCode: -1, Err: errors.New("metadata tool not found")}

		res := runCLI(t, fake, root)
		if res.code != ExitFailure {
			t.Errorf("exit code = %d, want %d", res.code, ExitFailure)
		}
		if !strings.Contains(res.stderr, "metadata tool not found") {
			t.Errorf("stderr = %q", res.stderr)
		}
	})

	t.Run("CopyFails", func(t *testing.T) {
		root, fake := photoTree(t, map[string]bool{"ref.jpg": true, "x.jpg": false})
		fake.CopyErr = &models.ToolInvocationError{Op: "copy", ExitCode: 1}

		res := runCLI(t, fake, root)
		if res.code != ExitFailure {
			t.Errorf("exit code = %d, want %d", res.code, ExitFailure)
		}
	})

	t.Run("BrokenConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("output:\n  format: [\n"), 0644); err != nil {
			t.Fatal(err)
		}
		res := runCLI(t, metadata.NewFake(nil), "--config", path, t.TempDir())
		if res.code != ExitFailure {
			t.Errorf("exit code = %d, want %d", res.code, ExitFailure)
		}
	})
}

func TestPropagateJSONOutput(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{"a.jpg": true, "b.jpg": true, "c.jpg": false})

	res := runCLI(t, fake, "-o", "json", root)
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}
	for _, want := range []string{`"status": "ambiguous"`, `"candidate_count": 2`, `"run_id": "`} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout lacks %s:\n%s", want, res.stdout)
		}
	}
}

func TestPropagateLogFile(t *testing.T) {
	root, fake := photoTree(t, map[string]bool{"a.jpg": true, "c.jpg": false})
	logPath := filepath.Join(t.TempDir(), "run.log")

	res := runCLI(t, fake, "--log-file", logPath, "--log-format", "json", "-q", root)
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"Run finished"`) {
		t.Errorf("log = %s", data)
	}
	if strings.Contains(res.stdout, "Files with geotag") {
		t.Errorf("quiet run printed the lists:\n%s", res.stdout)
	}
}

// ============== Pipeline Tests ==============

func TestPipelineStates(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]bool
		want  State
	}{
		{"NoAction", map[string]bool{"a.jpg": true}, StateNoActionNeeded},
		{"Completed", map[string]bool{"a.jpg": true, "b.jpg": false}, StateCompleted},
		{"Ambiguous", map[string]bool{"a.jpg": true, "b.jpg": true, "c.jpg": false}, StateAmbiguousReported},
		{"NoReference", map[string]bool{"c.jpg": false}, StateNoReferenceReported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, fake := photoTree(t, tt.files)
			logger := logging.NewNullLogger()
			p := NewPipeline(
				classify.New(fake, classify.DefaultOptions()),
				propagate.NewExecutor(fake, "", logger),
				output.NewJSONFormatter(),
				logger,
			)
			if p.State() != StateInit {
				t.Fatalf("initial state = %s", p.State())
			}

			op, err := RunConfig{SearchPath: root}.Operation(config.Default())
			if err != nil {
				t.Fatalf("Operation() error = %v", err)
			}
			report, err := p.Run(context.Background(), op, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if p.State() != tt.want {
				t.Errorf("state = %s, want %s", p.State(), tt.want)
			}
			if report.RunID != op.ID || report.Status == models.StatusFailed {
				t.Errorf("report = %+v", report)
			}
		})
	}

	t.Run("Failed", func(t *testing.T) {
		logger := logging.NewNullLogger()
		fake := metadata.NewFake(nil)
		p := NewPipeline(classify.New(fake, classify.DefaultOptions()), propagate.NewExecutor(fake, "", logger), output.NewJSONFormatter(), logger)

		op, _ := RunConfig{SearchPath: filepath.Join(t.TempDir(), "missing")}.Operation(config.Default())
		report, err := p.Run(context.Background(), op, &bytes.Buffer{})
		if err == nil || p.State() != StateFailed || report.Status != models.StatusFailed {
			t.Errorf("err = %v, state = %s, status = %s", err, p.State(), report.Status)
		}
		var ipe *models.InvalidPathError
		if !errors.As(err, &ipe) {
			t.Errorf("error = %v, want InvalidPathError", err)
		}
	})

	t.Run("ErrorOutputFails", func(t *testing.T) {
		var logs bytes.Buffer
		logger, err := logging.New(logging.Config{Writer: &logs, Level: logging.DebugLevel})
		if err != nil {
			t.Fatalf("logging.New() error = %v", err)
		}
		fake := metadata.NewFake(nil)
		formatter := brokenErrorFormatter{Formatter: output.NewJSONFormatter()}
		p := NewPipeline(classify.New(fake, classify.DefaultOptions()), propagate.NewExecutor(fake, "", logger), formatter, logger)

		op, _ := RunConfig{SearchPath: filepath.Join(t.TempDir(), "missing")}.Operation(config.Default())
		_, err = p.Run(context.Background(), op, &bytes.Buffer{})

		var reported *reportedError
		if err == nil || errors.As(err, &reported) {
			t.Errorf("error = %v, want an error the caller still prints", err)
		}
		if !strings.Contains(logs.String(), "Failed to write error output") {
			t.Errorf("logs = %s", logs.String())
		}
	})
}

// brokenErrorFormatter cannot write errors
type brokenErrorFormatter struct {
	output.Formatter
}

func (brokenErrorFormatter) Error(error) error {
	return errors.New("stderr closed")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, ExitOK},
		{"Argument", &models.ArgumentError{Message: "missing search path"}, ExitUsage},
		{"WrappedArgument", &reportedError{err: &models.ArgumentError{}}, ExitUsage},
		{"InvalidPath", &models.InvalidPathError{Path: "/x", Reason: "does not exist"}, ExitFailure},
		{"Tool", &models.ToolInvocationError{Op: "copy"}, ExitFailure},
		{"Other", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

// ============== Subcommand Tests ==============

func TestStampDate(t *testing.T) {
	dir := t.TempDir()
	files := []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b c.jpg")}
	for _, f := range files {
		if err := os.WriteFile(f, []byte("jpg"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("Success", func(t *testing.T) {
		fake := metadata.NewFake(nil)
		res := runCLI(t, fake, append([]string{"stamp-date", "2021-07-14 10:30:00"}, files...)...)
		if res.code != ExitOK {
			t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
		}

		stamps := fake.Stamps()
		if len(stamps) != 2 {
			t.Fatalf("got %d stamps, want 2", len(stamps))
		}
		want := time.Date(2021, 7, 14, 10, 30, 0, 0, time.Local)
		if !stamps[0].At.Equal(want) || stamps[1].Path != files[1] {
			t.Errorf("stamps = %+v", stamps)
		}
	})

	t.Run("BadDate", func(t *testing.T) {
		res := runCLI(t, metadata.NewFake(nil), "stamp-date", "yesterday", files[0])
		if res.code != ExitUsage {
			t.Errorf("exit code = %d, want %d", res.code, ExitUsage)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		fake := metadata.NewFake(nil)
		res := runCLI(t, fake, "stamp-date", "2021:07:14 10:30:00", filepath.Join(dir, "missing.jpg"))
		if res.code != ExitFailure || len(fake.Stamps()) != 0 {
			t.Errorf("exit code = %d, stamps = %d", res.code, len(fake.Stamps()))
		}
	})

	t.Run("MissingOperands", func(t *testing.T) {
		res := runCLI(t, metadata.NewFake(nil), "stamp-date", "2021-07-14 10:30:00")
		if res.code != ExitUsage {
			t.Errorf("exit code = %d, want %d", res.code, ExitUsage)
		}
	})
}

func TestParseCaptureDate(t *testing.T) {
	want := time.Date(2021, 7, 14, 10, 30, 0, 0, time.Local)
	for _, s := range []string{"2021-07-14 10:30:00", "2021:07:14 10:30:00"} {
		got, err := parseCaptureDate(s)
		if err != nil || !got.Equal(want) {
			t.Errorf("parseCaptureDate(%q) = %v, %v", s, got, err)
		}
	}

	got, err := parseCaptureDate("2021-07-14T10:30:00+02:00")
	if err != nil || !got.Equal(time.Date(2021, 7, 14, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("parseCaptureDate(RFC3339) = %v, %v", got, err)
	}

	if _, err := parseCaptureDate("14/07/2021"); ExitCode(err) != ExitUsage {
		t.Errorf("parseCaptureDate(14/07/2021) error = %v", err)
	}
}

func TestConvertRaw(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.CR2", "sub/b.nef", "c.jpg", "d.dng"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("raw"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	fake := metadata.NewFake(nil)
	fake.Converted[filepath.Join(dir, "d.jpg")] = true

	res := runCLI(t, fake, "convert-raw", dir)
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}
	if got := len(fake.Conversions()); got != 2 {
		t.Errorf("converted %d files, want 2: %v", got, fake.Conversions())
	}
	if !strings.Contains(res.stdout, "Converted 2 RAW files, skipped 1") {
		t.Errorf("stdout = %s", res.stdout)
	}

	t.Run("Repeat", func(t *testing.T) {
		res := runCLI(t, fake, "convert-raw", dir)
		if res.code != ExitOK || len(fake.Conversions()) != 2 {
			t.Errorf("exit code = %d, conversions = %d", res.code, len(fake.Conversions()))
		}
	})

	t.Run("NotADirectory", func(t *testing.T) {
		res := runCLI(t, fake, "convert-raw", filepath.Join(dir, "c.jpg"))
		if res.code != ExitFailure {
			t.Errorf("exit code = %d, want %d", res.code, ExitFailure)
		}
	})
}

func TestCheckDates(t *testing.T) {
	base := t.TempDir()
	for _, d := range []string{"2020", "2021", "misc"} {
		if err := os.MkdirAll(filepath.Join(base, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	reportDir := t.TempDir()
	stale := filepath.Join(reportDir, "2020_non_matching_files.txt")
	if err := os.WriteFile(stale, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fake := metadata.NewFake(nil)
	fake.Matches[metadata.CaptureYearMismatch(2021).Name] = []string{
		filepath.Join(base, "2021", "z.jpg"),
		filepath.Join(base, "2021", "a.mov"),
	}

	res := runCLI(t, fake, "check-dates", base, "--report-dir", reportDir)
	if res.code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", res.code, res.stderr)
	}

	content, err := os.ReadFile(filepath.Join(reportDir, "2021_non_matching_files.txt"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	want := filepath.Join(base, "2021", "a.mov") + "\n" + filepath.Join(base, "2021", "z.jpg") + "\n"
	if string(content) != want {
		t.Errorf("report = %q, want %q", content, want)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale 2020 report should be removed")
	}
	if !strings.Contains(res.stdout, "Skipping non-year directory misc") {
		t.Errorf("stdout = %s", res.stdout)
	}

	queries := fake.Queries()
	if len(queries) != 2 || !queries[0].Recursive || queries[0].Predicate.Name != "capture-year-mismatch-2020" {
		t.Errorf("queries = %+v", queries)
	}

	t.Run("SingleYear", func(t *testing.T) {
		fake := metadata.NewFake(nil)
		res := runCLI(t, fake, "check-dates", "--year", "2021", "--report-dir", t.TempDir(), base)
		if res.code != ExitOK || len(fake.Queries()) != 1 {
			t.Errorf("exit code = %d, queries = %d", res.code, len(fake.Queries()))
		}
	})

	t.Run("MissingYear", func(t *testing.T) {
		res := runCLI(t, metadata.NewFake(nil), "check-dates", "--year", "1999", base)
		if res.code != ExitFailure {
			t.Errorf("exit code = %d, want %d", res.code, ExitFailure)
		}
	})
}

func TestIsYearDir(t *testing.T) {
	for name, want := range map[string]bool{
		"2021": true, "0999": true, "202": false, "20211": false, "misc": false, "-202": false, "+202": false,
	} {
		if got := isYearDir(name); got != want {
			t.Errorf("isYearDir(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	res := runCLI(t, nil, "config", "init", "--config", path)
	if res.code != ExitOK {
		t.Fatalf("init exit code = %d, stderr = %s", res.code, res.stderr)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	res = runCLI(t, nil, "config", "init", "--config", path)
	if res.code != ExitFailure || !strings.Contains(res.stderr, "already exists") {
		t.Errorf("second init: code = %d, stderr = %s", res.code, res.stderr)
	}

	res = runCLI(t, nil, "config", "show", "--config", path, "-o", "json")
	if res.code != ExitOK || !strings.Contains(res.stdout, "field_group: gps:all") || !strings.Contains(res.stdout, "format: json") {
		t.Errorf("show: code = %d, stdout = %s", res.code, res.stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, metadata.NewFake(nil), "version", "--short")
	if res.code != ExitOK || strings.TrimSpace(res.stdout) != "dev" {
		t.Errorf("version --short: code = %d, stdout = %q", res.code, res.stdout)
	}

	res = runCLI(t, metadata.NewFake(nil), "version")
	if res.code != ExitOK || !strings.Contains(res.stdout, "Go version:") {
		t.Errorf("version: code = %d, stdout = %q", res.code, res.stdout)
	}
}

// versionRunner answers "-ver" like the real tool
type versionRunner struct{}

func (versionRunner) Run(ctx context.Context, inv metadata.Invocation) (*metadata.Result, error) {
	return &metadata.Result{Stdout: "13.10\n"}, nil
}

func TestVersionCommandReportsTool(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tool := metadata.NewExifTool("/opt/bin/exiftool", metadata.WithRunner(versionRunner{}))

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"version"}, Options{
		Stdout:  &stdout,
		Stderr:  &stderr,
		NewTool: func(*config.Config) metadata.Tool { return tool },
	})
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "exiftool:   13.10 (/opt/bin/exiftool)") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestHomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, "photos"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := config.SaveToFile(config.Default(), filepath.Join(home, "geotagsync.yaml")); err != nil {
		t.Fatal(err)
	}

	a := &app{flags: GlobalFlags{ConfigFile: "~/geotagsync.yaml", LogFile: "~/logs/run.log"}}
	path, err := a.configPath()
	if err != nil || path != filepath.Join(home, "geotagsync.yaml") {
		t.Errorf("configPath() = %s, %v", path, err)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Logging.File != filepath.Join(home, "logs", "run.log") {
		t.Errorf("Logging.File = %s", cfg.Logging.File)
	}

	op, err := RunConfig{SearchPath: "~/photos"}.Operation(cfg)
	if err != nil {
		t.Fatalf("Operation() error = %v", err)
	}
	if op.SearchPath != filepath.Join(home, "photos") {
		t.Errorf("SearchPath = %s", op.SearchPath)
	}
}
