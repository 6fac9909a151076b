package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// initContextVars returns a context holding a kong.Context with vars.
func initContextVars(t *testing.T, vars kong.Vars) context.Context {
	t.Helper()

	parser, err := kong.New(&struct{}{}, vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestRepl_Plain(t *testing.T) {
	out, errOut, err := runWith(t, &Repl{}, "(+ 1 2)\n(\n")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if want := "user> (+ 1 2)\nuser> user> \n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}

	if !strings.HasPrefix(errOut, "error: unterminated collection") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRepl_Prelude(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "init.quux", "'a\n[1 2]\n")

	var out, errOut strings.Builder

	ctx := WithSourceFiles(t.Context(), []string{src})
	ctx = WithStreams(ctx, strings.NewReader("b\n"), &out, &errOut)

	if err := (&Repl{Plain: true}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if want := "(quote a)\n[1 2]\nuser> b\nuser> \n"; out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestRepl_HistoryPath(t *testing.T) {
	cache := t.TempDir()

	ctx := initContextVars(t, kong.Vars{CacheIdentifier: cache})

	if got, want := (&Repl{}).historyPath(ctx), filepath.Join(cache, historyFile); got != want {
		t.Errorf("historyPath() = %q, want %q", got, want)
	}

	if got := (&Repl{NoHistory: true}).historyPath(ctx); got != "" {
		t.Errorf("historyPath() with NoHistory = %q, want empty", got)
	}

	if got := (&Repl{}).historyPath(t.Context()); got != "" {
		t.Errorf("historyPath() without vars = %q, want empty", got)
	}
}

func TestIsTerminal(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	if isTerminal(strings.NewReader(""), &strings.Builder{}) {
		t.Error("isTerminal(reader, builder) = true")
	}

	if isTerminal(file, file) {
		t.Error("isTerminal(regular file) = true")
	}
}
