package lang

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-yaml"
)

func mustReadAll(t *testing.T, src string) []Value {
	t.Helper()

	forms, err := ReadAll(context.Background(), src, WithCache(false))
	if err != nil {
		t.Fatalf("ReadAll(%q): %v", src, err)
	}

	return forms
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		indent int
		want   string
	}{
		{"canonical", "( + 1  2 ) x", 0, "(+ 1 2)\nx\n"},
		{"flat list unbroken", "(+ 1 2)", 2, "(+ 1 2)\n"},
		{
			"nested",
			"(defn f [x] (+ x 1))",
			2,
			"(defn\n  f\n  [x]\n  (+ x 1))\n",
		},
		{
			"two levels",
			"(a (b (c)))",
			2,
			"(a\n  (b\n    (c)))\n",
		},
		{"nothing", "", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := Format(context.Background(), &buf, mustReadAll(t, tt.src), tt.indent); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("got\n%q\nwant\n%q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormat_ReadsBack(t *testing.T) {
	src := "(let [a {\"k\" [1 2]}] (f a '(g)))"
	forms := mustReadAll(t, src)

	var buf bytes.Buffer
	if err := Format(context.Background(), &buf, forms, 4); err != nil {
		t.Fatal(err)
	}

	again := mustReadAll(t, buf.String())
	if len(again) != 1 || !Equal(again[0], forms[0]) {
		t.Errorf("pretty output %q does not read back", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		indent int
		want   string
	}{
		{"map", `{"a" 1 b [true nil]}`, 0, `{"a":1,"b":[true,null]}` + "\n"},
		{"odd map is array", `{a 1 b}`, 0, `["a",1,"b"]` + "\n"},
		{"duplicate keys is array", `{a 1 a 2}`, 0, `["a",1,"a",2]` + "\n"},
		{"string decoded", `"tab\tend"`, 0, `"tab\tend"` + "\n"},
		{"two forms", "1 (2)", 0, "1\n[2]\n"},
		{"indented", "[1]", 2, "[\n  1\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := FormatJSON(context.Background(), &buf, mustReadAll(t, tt.src), tt.indent); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatYAML(t *testing.T) {
	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer

		forms := mustReadAll(t, `{"name" "quux" tags [a b] depth 3}`)
		if err := FormatYAML(context.Background(), &buf, forms, indent); err != nil {
			t.Fatal(err)
		}

		var got map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("indent %d: invalid YAML %q: %v", indent, buf.String(), err)
		}

		if got["name"] != "quux" {
			t.Errorf("indent %d: name = %v", indent, got["name"])
		}

		if tags, ok := got["tags"].([]any); !ok || len(tags) != 2 || tags[0] != "a" {
			t.Errorf("indent %d: tags = %v", indent, got["tags"])
		}
	}
}

func TestFormatYAML_MultipleDocuments(t *testing.T) {
	var buf bytes.Buffer

	if err := FormatYAML(context.Background(), &buf, mustReadAll(t, "[1] [2]"), 2); err != nil {
		t.Fatal(err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("---\n")) {
		t.Errorf("documents not separated: %q", buf.String())
	}
}

func TestFormatAST(t *testing.T) {
	var buf bytes.Buffer

	if err := FormatAST(&buf, mustReadAll(t, `(+ 1 ("s" [x]))`)); err != nil {
		t.Fatal(err)
	}

	want := "list (3)\n" +
		"  symbol: +\n" +
		"  int: 1\n" +
		"  list (2)\n" +
		"    string: \"s\"\n" +
		"    vector (1)\n" +
		"      symbol: x\n"
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFormatTokens(t *testing.T) {
	var buf bytes.Buffer

	if err := FormatTokens(&buf, Tokenize("(a\n b)")); err != nil {
		t.Fatal(err)
	}

	want := "1:1\t(\n1:2\ta\n2:2\tb\n2:3\t)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
