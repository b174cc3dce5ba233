package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recorder struct {
	msg string
}

func (r *recorder) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		pred Predicate
		in   string
		want bool
	}{
		{ThirdParty, "github.com/go-chi/chi/v5", true},
		{ThirdParty, "net/http", false},
		{ThirdParty, "sgas/internal/core", false},
		{Within("sgas/internal/adapters"), "sgas/internal/adapters/resources", true},
		{Within("sgas/internal/adapters/"), "sgas/internal/adapters", true},
		{Within("sgas/internal/core"), "sgas/internal/corex", false},
		{AnyOf(ThirdParty, Within("sgas")), "sgas/pkg/domain", true},
		{AnyOf(ThirdParty, Within("sgas")), "strings", false},
	}
	for _, c := range cases {
		if got := c.pred(c.in); got != c.want {
			t.Errorf("predicate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package tmp\nimport (\n\t\"fmt\"\n\t\"github.com/acme/x\"\n)\nvar _ = fmt.Sprint\n")
	writeFile(t, dir, "a_test.go", "package tmp\nimport \"github.com/acme/y\"\n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o750); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub"), "b.go", "package sub\nimport \"github.com/acme/z\"\n")

	viols, err := directImportViolations(dir, ThirdParty)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "github.com/acme/x (in a.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}

	AssertNoDirectImports(t, dir, Within("os"), "no os")
}

func TestDirectImportViolationsParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.go", "package tmp\nimport (\n")
	if _, err := directImportViolations(dir, ThirdParty); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := directImportViolations(filepath.Join(dir, "missing"), ThirdParty); err == nil {
		t.Fatal("expected read error")
	}
}

func TestFailIfReportsReason(t *testing.T) {
	var r recorder
	failIf(&r, "forbidden direct imports", "layering", nil)
	if r.msg != "" {
		t.Fatalf("unexpected failure %q", r.msg)
	}
	failIf(&r, "forbidden direct imports", "layering", []string{"a", "b"})
	if !strings.Contains(r.msg, "(layering)") || !strings.HasSuffix(r.msg, "a\nb") {
		t.Fatalf("unexpected message %q", r.msg)
	}
}

func TestAssertNoTransitiveDependencyUsesGoList(t *testing.T) {
	orig := goListDeps
	t.Cleanup(func() { goListDeps = orig })

	goListDeps = func(pattern string) ([]byte, error) {
		if pattern != "./pkg/..." {
			return nil, errors.New("unexpected pattern")
		}
		return []byte("fmt\nsgas/pkg/domain\n\n"), nil
	}
	AssertNoTransitiveDependency(t, "./pkg/...", Within("sgas/internal"), "pkg stays independent")
}
