package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

type recordingT struct {
	testing.TB
	msg string
}

func (r *recordingT) Fatalf(format string, args ...any) { r.msg = format }

func TestInfraImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"materialsmc/internal/infra/blob/fs", true},
		{"materialsmc/internal/infra", true},
		{"materialsmc/internal/blob", false},
		{"materialsmc/pkg/material", false},
	}
	for _, c := range cases {
		if got := InfraImportForbidden(c.in); got != c.want {
			t.Fatalf("InfraImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestDriverImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"github.com/aws/aws-sdk-go-v2/service/s3", true},
		{"github.com/jackc/pgx/v5/stdlib", true},
		{"modernc.org/sqlite", true},
		{"database/sql", true},
		{"math", false},
		{"github.com/stretchr/testify/require", false},
	}
	for _, c := range cases {
		if got := DriverImportForbidden(c.in); got != c.want {
			t.Fatalf("DriverImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestInternalImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"example.com/mod/internal/x", true},
		{"example.com/mod/pkg/x", false},
	}
	for _, c := range cases {
		if got := InternalImportForbidden(c.in); got != c.want {
			t.Fatalf("InternalImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func writePkg(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestAssertNoDirectImportsIgnoresTests(t *testing.T) {
	dir := writePkg(t, map[string]string{
		"x.go":      "package tmp\nimport \"fmt\"\nfunc X(){fmt.Println(1)}",
		"x_test.go": "package tmp\nimport \"materialsmc/internal/infra/blob/fs\"\nvar _ = fs.New",
	})
	AssertNoDirectImports(t, dir, InfraImportForbidden, "none")
}

func TestDirectImportViolationsReported(t *testing.T) {
	dir := writePkg(t, map[string]string{
		"x.go": "package tmp\nimport \"materialsmc/internal/infra/blob/fs\"\nvar _ = fs.New",
	})
	viols, err := directImportViolations(dir, InfraImportForbidden)
	if err != nil || len(viols) != 1 {
		t.Fatalf("expected one violation, got %v %v", viols, err)
	}
	rec := &recordingT{TB: t}
	failIfDirectViolations(rec, "infra", viols)
	if rec.msg == "" {
		t.Fatalf("expected failure to be reported")
	}
}

func TestDirectImportViolationsParseError(t *testing.T) {
	dir := writePkg(t, map[string]string{"bad.go": "package"})
	if _, err := directImportViolations(dir, InfraImportForbidden); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := directImportViolations(filepath.Join(dir, "missing"), InfraImportForbidden); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestTransitiveViolationsUseGoList(t *testing.T) {
	old := goListDeps
	defer func() { goListDeps = old }()
	goListDeps = func(string) ([]byte, error) {
		return []byte("math\nmaterialsmc/pkg/interp\n\ngithub.com/aws/aws-sdk-go-v2/aws\n"), nil
	}
	viols, _, err := transitiveDependencyViolations("./...", DriverImportForbidden)
	if err != nil || len(viols) != 1 || viols[0] != "github.com/aws/aws-sdk-go-v2/aws" {
		t.Fatalf("unexpected violations %v %v", viols, err)
	}
	rec := &recordingT{TB: t}
	failIfTransitiveViolations(rec, "drivers", viols)
	if rec.msg == "" {
		t.Fatalf("expected failure to be reported")
	}
}
