package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quux/lang"
)

type initCLI struct {
	Log struct {
		Level string `default:"info"`
	} `embed:"" prefix:"log-"`
	Depth   int      `default:"64"`
	Paths   []string ``
	Secret  string   `default:"x" hidden:""`
	Pprof   string   `default:"cpu" name:"pprof-mode"`
	Version kong.VersionFlag

	Init Init `cmd:""`
}

// initContext parses args against initCLI with the configuration file at
// path.
func initContext(t *testing.T, path string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli,
		kong.Name("quux"),
		kong.Vars{ConfigIdentifier: path, "version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")

	ctx := initContext(t, path, "--depth=8", "--paths=a,b")
	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "; quux configuration\n{log-level \"info\"\n depth 8\n paths [\"a\" \"b\"]}\n"
	if string(data) != want {
		t.Errorf("config = %q, want %q", data, want)
	}

	forms, err := lang.ReadAll(t.Context(), string(data))
	if err != nil || len(forms) != 1 || forms[0].Kind() != lang.KindHashMap {
		t.Errorf("config does not read back as one hash-map: %v %v", forms, err)
	}

	err = (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Errorf("second Run() error = %v, want %v", err, ErrFileExists)
	}

	ctx = initContext(t, path)
	if err := (&Init{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced Run() failed: %v", err)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "; quux configuration\n{log-level \"info\"\n depth 64}\n"; string(data) != want {
		t.Errorf("forced config = %q, want %q", data, want)
	}
}

func TestInit_NoContext(t *testing.T) {
	if err := (&Init{}).Run(t.Context()); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Run() error = %v, want %v", err, ErrWriteConfig)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string // printed form; empty for an unset value
	}{
		{"nil", nil, ""},
		{"true", true, "true"},
		{"false", false, "false"},
		{"empty string", "", ""},
		{"string", `a "b"`, `"a \"b\""`},
		{"int", 42, "42"},
		{"negative", int8(-3), "-3"},
		{"uint", uint16(7), "7"},
		{"huge uint", uint64(1 << 63), `"9223372036854775808"`},
		{"duration", time.Second, "1000000000"},
		{"float", 1.5, `"1.5"`},
		{"empty slice", []string{}, ""},
		{"slice", []string{"a", ""}, `["a" nil]`},
		{"nested", [][]int{{1}, {}}, "[[1] nil]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flagValue(tt.val)

			switch {
			case tt.want == "" && got != nil:
				t.Errorf("flagValue(%v) = %s, want unset", tt.val, lang.Print(got))
			case tt.want != "" && got == nil:
				t.Errorf("flagValue(%v) unset, want %s", tt.val, tt.want)
			case got != nil && lang.Print(got) != tt.want:
				t.Errorf("flagValue(%v) = %s, want %s", tt.val, lang.Print(got), tt.want)
			}
		})
	}
}

func TestRenderConfig(t *testing.T) {
	tests := []struct {
		name string
		m    lang.HashMap
		want string
	}{
		{"empty", lang.NewHashMap(), "; quux configuration\n{}\n"},
		{
			"pairs",
			lang.NewHashMap(lang.Symbol("a"), lang.Int(1), lang.Symbol("b"), lang.Bool(true)),
			"; quux configuration\n{a 1\n b true}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderConfig(tt.m); got != tt.want {
				t.Errorf("renderConfig() = %q, want %q", got, tt.want)
			}
		})
	}
}
