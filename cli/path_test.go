package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestSourcePathEnv(t *testing.T) {
	got := sourcePathEnv()

	if !strings.HasSuffix(got, "_PATH") {
		t.Errorf("sourcePathEnv() = %q, want _PATH suffix", got)
	}

	if got != strings.ToUpper(got) || strings.Contains(got, "-") {
		t.Errorf("sourcePathEnv() = %q, want upper-case identifier", got)
	}
}

func TestSourcePath(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	file := filepath.Join(dir, "file")

	for _, d := range []string{a, b} {
		if err := os.Mkdir(d, 0o700); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	env := strings.Join([]string{a, filepath.Join(dir, "missing"), file, b}, string(os.PathListSeparator))

	got := sourcePath(env)

	if i, j := slices.Index(got, a), slices.Index(got, b); i < 0 || j < 0 || i > j {
		t.Errorf("sourcePath() = %v, want %s before %s", got, a, b)
	}

	for _, p := range got {
		if !isDir(p) {
			t.Errorf("sourcePath() = %v, contains non-directory %q", got, p)
		}
	}

	if isDir(configDir()) && (len(got) == 0 || got[0] != configDir()) {
		t.Errorf("sourcePath() = %v, want %s first", got, configDir())
	}
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	other := filepath.Join(dir, "other")

	for _, d := range []string{lib, other} {
		if err := os.Mkdir(d, 0o700); err != nil {
			t.Fatal(err)
		}
	}

	for _, path := range []string{
		filepath.Join(lib, "core.quux"),
		filepath.Join(other, "core.quux"),
		filepath.Join(other, "extra.quux"),
		filepath.Join(dir, "local.quux"),
	} {
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	t.Chdir(dir)

	dirs := []string{lib, other}

	tests := []struct {
		name string
		want string
	}{
		{stdinSource, stdinSource},
		{"local.quux", "local.quux"},
		{"core.quux", filepath.Join(lib, "core.quux")},
		{"extra.quux", filepath.Join(other, "extra.quux")},
		{"missing.quux", "missing.quux"},
		{"lib", "lib"},
		{filepath.Join(dir, "nope.quux"), filepath.Join(dir, "nope.quux")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveSource(tt.name, dirs); got != tt.want {
				t.Errorf("resolveSource(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveSources(t *testing.T) {
	if got := resolveSources(nil); got != nil {
		t.Errorf("resolveSources(nil) = %v, want nil", got)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.quux"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(sourcePathEnv(), dir)
	t.Chdir(t.TempDir())

	got := resolveSources([]string{"lib.quux", stdinSource})
	want := []string{filepath.Join(dir, "lib.quux"), stdinSource}

	if !slices.Equal(got, want) {
		t.Errorf("resolveSources() = %v, want %v", got, want)
	}
}

func TestUserDir(t *testing.T) {
	base := t.TempDir()

	got := userDir(func() (string, error) { return base, nil }, ".x")
	if want := filepath.Join(base, basePrefix()); got != want {
		t.Errorf("userDir() = %q, want %q", got, want)
	}

	got = userDir(func() (string, error) { return "", os.ErrNotExist }, ".x")
	if !strings.HasSuffix(got, basePrefix()) {
		t.Errorf("userDir() fallback = %q, want suffix %q", got, basePrefix())
	}
}
